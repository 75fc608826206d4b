package repository

import (
	"errors"
	"time"

	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// DraftRepository is the Draft Store: durable CRUD for draft rows, every
// query scoped by the owning user. FindByIDAny is the one unscoped read and
// exists solely for the admin publish override.
type DraftRepository interface {
	// Insert creates a new draft row; id and timestamps must be set by the caller's service.
	Insert(draft *domain.Draft) error
	// Update applies fields to a draft scoped by id+user and bumps save_count.
	Update(id, userID string, fields map[string]interface{}) (*domain.Draft, error)
	// FindByID returns a draft scoped by id+user.
	FindByID(id, userID string) (*domain.Draft, error)
	// FindByIDAny returns a draft regardless of owner (admin publish only).
	FindByIDAny(id string) (*domain.Draft, error)
	// ListActive returns non-expired drafts, most recently updated first.
	ListActive(userID string) ([]domain.Draft, error)
	// FindByTitle returns the non-expired draft matching an exact trimmed title, or ErrDraftNotFound.
	FindByTitle(userID, draftType, title string) (*domain.Draft, error)
	// FindRecent returns non-expired drafts created since the cutoff, newest first, capped.
	FindRecent(userID, draftType string, since time.Time, limit int) ([]domain.Draft, error)
	// Delete removes a draft scoped by id+user.
	Delete(id, userID string) error
}

type draftRepository struct {
	db *gorm.DB
}

// NewDraftRepository creates a new DraftRepository
func NewDraftRepository(db *gorm.DB) DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Insert(draft *domain.Draft) error {
	now := time.Now()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	return r.db.Create(draft).Error
}

// Update stamps updated_at and increments save_count in the store itself so
// concurrent autosaves cannot lose increments.
func (r *draftRepository) Update(id, userID string, fields map[string]interface{}) (*domain.Draft, error) {
	fields["save_count"] = gorm.Expr("save_count + 1")
	fields["updated_at"] = time.Now()

	result := r.db.Model(&domain.Draft{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, common.ErrDraftNotFound
	}

	var draft domain.Draft
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) FindByID(id, userID string) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) FindByIDAny(id string) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.Where("id = ?", id).First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) ListActive(userID string) ([]domain.Draft, error) {
	var drafts []domain.Draft
	err := r.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("updated_at DESC").
		Find(&drafts).Error
	return drafts, err
}

// FindByTitle only considers live rows; an expired draft is terminal and must
// never absorb a new save.
func (r *draftRepository) FindByTitle(userID, draftType, title string) (*domain.Draft, error) {
	var draft domain.Draft
	err := r.db.Where("user_id = ? AND draft_type = ? AND title = ? AND expires_at > ?", userID, draftType, title, time.Now()).
		Order("updated_at DESC").
		First(&draft).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrDraftNotFound
		}
		return nil, err
	}
	return &draft, nil
}

func (r *draftRepository) FindRecent(userID, draftType string, since time.Time, limit int) ([]domain.Draft, error) {
	var drafts []domain.Draft
	err := r.db.Where("user_id = ? AND draft_type = ? AND created_at >= ? AND expires_at > ?", userID, draftType, since, time.Now()).
		Order("created_at DESC").
		Limit(limit).
		Find(&drafts).Error
	return drafts, err
}

func (r *draftRepository) Delete(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Draft{})
	return result.Error
}
