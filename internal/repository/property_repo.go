package repository

import (
	"errors"

	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// PropertyRepository handles published listings and their media rows.
type PropertyRepository interface {
	Create(property *domain.Property) error
	CreateImages(images []domain.PropertyImage) error
	FindByID(id uint64) (*domain.Property, error)
	ListByStatus(status domain.PropertyStatus, page, limit int) ([]domain.Property, int64, error)
	UpdateStatus(id uint64, status domain.PropertyStatus) error
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new PropertyRepository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(property *domain.Property) error {
	return r.db.Create(property).Error
}

func (r *propertyRepository) CreateImages(images []domain.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.Create(&images).Error
}

func (r *propertyRepository) FindByID(id uint64) (*domain.Property, error) {
	var property domain.Property
	err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC, sort_order ASC")
	}).Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ListByStatus(status domain.PropertyStatus, page, limit int) ([]domain.Property, int64, error) {
	query := r.db.Model(&domain.Property{}).Where("status = ?", status)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []domain.Property
	err := query.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("is_primary DESC, sort_order ASC")
	}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&properties).Error
	return properties, total, err
}

func (r *propertyRepository) UpdateStatus(id uint64, status domain.PropertyStatus) error {
	result := r.db.Model(&domain.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrPropertyNotFound
	}
	return nil
}
