package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/repository"
	"github.com/portalhomehub/portal-backend/pkg/cache"
	"github.com/portalhomehub/portal-backend/pkg/logger"
)

// PlaceholderTitle is used when neither the payload nor the draft carries a
// usable title.
const PlaceholderTitle = "Property Listing"

// Caller identifies the authenticated account performing the publish.
type Caller struct {
	UserID string
	Email  string
	Role   domain.Role
}

// PublishResult reports the outcome of a successful promotion.
type PublishResult struct {
	PropertyID uint64
	Status     domain.PropertyStatus
	Message    string
}

// PublishService promotes a draft into a durable property listing and
// retires the draft.
type PublishService interface {
	Publish(caller Caller, draftID string) (*PublishResult, error)
}

type publishService struct {
	drafts     repository.DraftRepository
	properties repository.PropertyRepository
	users      repository.UserRepository
	cacheSvc   cache.Service
	policy     DedupPolicy
}

// NewPublishService creates a new PublishService
func NewPublishService(
	drafts repository.DraftRepository,
	properties repository.PropertyRepository,
	users repository.UserRepository,
	cacheSvc cache.Service,
	policy DedupPolicy,
) PublishService {
	return &publishService{
		drafts:     drafts,
		properties: properties,
		users:      users,
		cacheSvc:   cacheSvc,
		policy:     policy,
	}
}

// Publish runs the promotion procedure. The property insert is the only
// fatal step; media rows and the draft delete are best-effort once the
// listing exists.
func (s *publishService) Publish(caller Caller, draftID string) (*PublishResult, error) {
	if !caller.Role.CanPublishDrafts() {
		return nil, common.ErrForbidden
	}

	// Admins may publish on behalf of any user; everyone else stays scoped.
	var draft *domain.Draft
	var err error
	if caller.Role.CanPublishAnyDraft() {
		draft, err = s.drafts.FindByIDAny(draftID)
	} else {
		draft, err = s.drafts.FindByID(draftID, caller.UserID)
	}
	if err != nil {
		return nil, err
	}

	if draft.Expired(time.Now()) {
		return nil, common.ErrDraftExpired
	}

	// The DRAFT OWNER's profile drives country and auto-approval, not the
	// caller's.
	owner, err := s.resolveOwner(draft.UserID)
	if err != nil {
		return nil, err
	}

	status := domain.PropertyStatusPending
	if owner.Role.Tier() == domain.TierAdministrative {
		status = domain.PropertyStatusApproved
	}

	property := s.remap(draft, owner, caller, status)
	if err := s.properties.Create(property); err != nil {
		return nil, fmt.Errorf("failed to create property listing: %w", err)
	}

	// Media rows are non-critical: the listing exists even without them.
	if images := buildImageRows(property.ID, draft.DraftData.Images); len(images) > 0 {
		if err := s.properties.CreateImages(images); err != nil {
			logger.Error("property %d created but image rows failed: %v", property.ID, err)
		}
	}

	// Retiring the draft is also non-critical at this point.
	if err := s.drafts.Delete(draft.ID, draft.UserID); err != nil {
		logger.Error("property %d created but draft %s not deleted: %v", property.ID, draft.ID, err)
	}

	if s.cacheSvc != nil && status == domain.PropertyStatusApproved {
		if err := s.cacheSvc.InvalidateListings(context.Background()); err != nil {
			logger.Warn("listing cache invalidation failed: %v", err)
		}
	}

	message := "Property submitted for review"
	if status == domain.PropertyStatusApproved {
		message = "Property published and live"
	}
	return &PublishResult{
		PropertyID: property.ID,
		Status:     status,
		Message:    message,
	}, nil
}

// resolveOwner reads the draft owner's profile, trying the cache first.
func (s *publishService) resolveOwner(userID string) (*domain.User, error) {
	if s.cacheSvc != nil {
		var cached domain.User
		if err := s.cacheSvc.GetUser(context.Background(), userID, &cached); err == nil && cached.ID != "" {
			return &cached, nil
		}
	}

	owner, err := s.users.FindByID(userID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetUser(context.Background(), userID, owner); err != nil {
			logger.Warn("profile cache write failed: %v", err)
		}
	}
	return owner, nil
}

// remap converts the draft's opaque payload into the property's typed
// schema, applying the documented fallback chains.
func (s *publishService) remap(draft *domain.Draft, owner *domain.User, caller Caller, status domain.PropertyStatus) *domain.Property {
	data := &draft.DraftData

	title := data.Title
	if title == "" && !s.policy.IsGenericTitle(draft.Title) {
		title = draft.Title
	}
	if title == "" {
		title = PlaceholderTitle
	}

	location := data.Location
	if location == "" {
		location = data.Region
	}
	if location == "" {
		location = data.City
	}

	// Legacy forms used lot_size_* for the same measurements.
	landValue := data.LandSizeValue
	if landValue == nil {
		landValue = data.LotSizeValue
	}
	landUnit := data.LandSizeUnit
	if landUnit == "" {
		landUnit = data.LotSizeUnit
	}

	listedBy := data.ListedByType
	if listedBy == "" {
		listedBy = "agent"
	}

	contact := data.OwnerEmail
	if contact == "" {
		contact = data.ContactEmail
	}
	if contact == "" {
		contact = caller.Email
	}

	listingType := domain.ListingType(draft.DraftType)
	if listingType == "" {
		listingType = domain.ListingTypeSale
	}

	return &domain.Property{
		OwnerID:       owner.ID,
		CountryID:     owner.CountryID,
		Title:         title,
		Description:   data.Description,
		PropertyType:  data.PropertyType,
		ListingType:   listingType,
		Price:         data.Price,
		Bedrooms:      data.Bedrooms,
		Bathrooms:     data.Bathrooms,
		Region:        data.Region,
		City:          data.City,
		Location:      location,
		LandSizeValue: landValue,
		LandSizeUnit:  landUnit,
		ListedByType:  listedBy,
		ContactEmail:  contact,
		Status:        status,
	}
}

// buildImageRows derives is_primary from an explicit flag, or first image
// wins when nothing is flagged.
func buildImageRows(propertyID uint64, images []domain.ListingImage) []domain.PropertyImage {
	if len(images) == 0 {
		return nil
	}

	hasPrimary := false
	for _, img := range images {
		if img.IsPrimary {
			hasPrimary = true
			break
		}
	}

	rows := make([]domain.PropertyImage, 0, len(images))
	for i, img := range images {
		if img.URL == "" {
			continue
		}
		rows = append(rows, domain.PropertyImage{
			PropertyID: propertyID,
			URL:        img.URL,
			IsPrimary:  img.IsPrimary || (!hasPrimary && i == 0),
			SortOrder:  i,
		})
	}
	return rows
}
