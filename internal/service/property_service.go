package service

import (
	"context"
	"encoding/json"

	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/repository"
	"github.com/portalhomehub/portal-backend/pkg/cache"
	"github.com/portalhomehub/portal-backend/pkg/logger"
)

// Viewer identifies who is reading a listing; zero value means anonymous.
type Viewer struct {
	UserID string
	Role   domain.Role
}

// ListingsPage is the cached shape of one public listings page.
type ListingsPage struct {
	Properties []domain.PropertyListItem `json:"properties"`
	Meta       *common.Meta              `json:"meta"`
}

// PropertyService serves the public listing surface and admin moderation.
type PropertyService interface {
	// ListApproved returns approved listings, newest first.
	ListApproved(page, limit int) (*ListingsPage, error)
	// Get returns one property; non-approved rows only for admins or the owner.
	Get(id uint64, viewer Viewer) (*domain.Property, error)
	// Moderate approves or rejects a pending listing.
	Moderate(id uint64, status domain.PropertyStatus, reviewer domain.Role) error
}

type propertyService struct {
	properties repository.PropertyRepository
	cacheSvc   cache.Service
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(properties repository.PropertyRepository, cacheSvc cache.Service) PropertyService {
	return &propertyService{
		properties: properties,
		cacheSvc:   cacheSvc,
	}
}

func (s *propertyService) ListApproved(page, limit int) (*ListingsPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	if s.cacheSvc != nil {
		if data, err := s.cacheSvc.GetListings(context.Background(), page, limit); err == nil {
			var cached ListingsPage
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	properties, total, err := s.properties.ListByStatus(domain.PropertyStatusApproved, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]domain.PropertyListItem, len(properties))
	for i := range properties {
		items[i] = toListItem(&properties[i])
	}
	result := &ListingsPage{
		Properties: items,
		Meta:       common.NewMeta(page, limit, total),
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetListings(context.Background(), page, limit, result); err != nil {
			logger.Warn("listing cache write failed: %v", err)
		}
	}
	return result, nil
}

func (s *propertyService) Get(id uint64, viewer Viewer) (*domain.Property, error) {
	property, err := s.properties.FindByID(id)
	if err != nil {
		return nil, err
	}

	if property.Status != domain.PropertyStatusApproved {
		if viewer.UserID != property.OwnerID && !viewer.Role.CanModerateListings() {
			return nil, common.ErrPropertyNotFound
		}
	}
	return property, nil
}

func (s *propertyService) Moderate(id uint64, status domain.PropertyStatus, reviewer domain.Role) error {
	if !reviewer.CanModerateListings() {
		return common.ErrForbidden
	}
	if status != domain.PropertyStatusApproved && status != domain.PropertyStatusRejected {
		return common.ErrInvalidInput
	}

	if err := s.properties.UpdateStatus(id, status); err != nil {
		return err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.InvalidateListings(context.Background()); err != nil {
			logger.Warn("listing cache invalidation failed: %v", err)
		}
	}
	return nil
}

func toListItem(p *domain.Property) domain.PropertyListItem {
	item := domain.PropertyListItem{
		ID:           p.ID,
		Title:        p.Title,
		PropertyType: p.PropertyType,
		ListingType:  p.ListingType,
		Price:        p.Price,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		Region:       p.Region,
		City:         p.City,
		Location:     p.Location,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
	for _, img := range p.Images {
		if img.IsPrimary {
			item.Thumbnail = img.URL
			break
		}
	}
	if item.Thumbnail == "" && len(p.Images) > 0 {
		item.Thumbnail = p.Images[0].URL
	}
	return item
}
