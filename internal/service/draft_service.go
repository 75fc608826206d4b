package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/repository"
	"github.com/portalhomehub/portal-backend/pkg/logger"
)

// DefaultDraftTTL is the fixed horizon after which a draft becomes inert.
const DefaultDraftTTL = 30 * 24 * time.Hour

// SaveResult is what the smart-create path reports back.
type SaveResult struct {
	DraftID string
	Created bool
	// Explicit marks a write routed by a caller-supplied draft_id, as
	// opposed to one the suppression policy redirected.
	Explicit bool
}

// AutosaveResult is what the update path reports back.
type AutosaveResult struct {
	DraftID   string
	UpdatedAt time.Time
	SaveCount int
}

// DraftService handles draft lifecycle business logic
type DraftService interface {
	// Save runs the duplicate-suppression policy and creates or updates a draft.
	Save(userID string, req *domain.SaveDraftRequest) (*SaveResult, error)
	// Autosave applies an in-place update to a draft the caller owns.
	Autosave(draftID, userID string, req *domain.AutosaveRequest) (*AutosaveResult, error)
	// List returns the caller's non-expired drafts, newest first.
	List(userID string) ([]domain.DraftListItem, error)
	// Load returns one draft flattened for the editor form.
	Load(draftID, userID string) (map[string]any, error)
	// Delete removes a draft.
	Delete(draftID, userID string) error
}

type draftService struct {
	drafts repository.DraftRepository
	users  repository.UserRepository
	policy DedupPolicy
	ttl    time.Duration
}

// NewDraftService creates a new DraftService
func NewDraftService(drafts repository.DraftRepository, users repository.UserRepository, policy DedupPolicy, ttl time.Duration) DraftService {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &draftService{
		drafts: drafts,
		users:  users,
		policy: policy,
		ttl:    ttl,
	}
}

// Save decides create-vs-update. Evaluated in order, first match wins:
// explicit draft_id, exact title match, recent-content similarity, insert.
func (s *draftService) Save(userID string, req *domain.SaveDraftRequest) (*SaveResult, error) {
	// 1. Explicit update: the caller already knows its row.
	if req.DraftID != "" {
		result, err := s.Autosave(req.DraftID, userID, &domain.AutosaveRequest{
			Title:     req.Title,
			DraftType: req.DraftType,
			DraftData: req.DraftData,
		})
		if err != nil {
			return nil, err
		}
		return &SaveResult{DraftID: result.DraftID, Explicit: true}, nil
	}

	draftType := req.DraftType
	if draftType == "" {
		draftType = "sale"
	}
	title := strings.TrimSpace(req.Title)
	now := time.Now()

	if !s.policy.IsGenericTitle(title) {
		// 2. Title-match suppression: same user, same type, exact title.
		existing, err := s.drafts.FindByTitle(userID, draftType, title)
		switch {
		case err == nil && !existing.Expired(now):
			// Redirect the write; the stored title is left untouched.
			if _, err := s.drafts.Update(existing.ID, userID, map[string]interface{}{
				"draft_data": req.DraftData,
			}); err != nil {
				return nil, err
			}
			return &SaveResult{DraftID: existing.ID}, nil
		case err == nil:
			// Expired rows are terminal; never redirect a save into one.
		case !errors.Is(err, common.ErrDraftNotFound):
			// A failed lookup must not fail the save.
			logger.Warn("draft title lookup failed, saving as new: %v", err)
		}
	} else {
		// 3. Similarity suppression over recent drafts of the same type.
		since := now.Add(-s.policy.Window)
		candidates, err := s.drafts.FindRecent(userID, draftType, since, s.policy.MaxCandidates)
		if err != nil {
			logger.Warn("draft similarity lookup failed, saving as new: %v", err)
		} else {
			for i := range candidates {
				if candidates[i].Expired(now) {
					continue
				}
				if SameListing(&candidates[i].DraftData, &req.DraftData) {
					if _, err := s.drafts.Update(candidates[i].ID, userID, map[string]interface{}{
						"draft_data": req.DraftData,
					}); err != nil {
						return nil, err
					}
					return &SaveResult{DraftID: candidates[i].ID}, nil
				}
			}
		}
	}

	// 4. Fallback: genuinely new draft.
	draft := &domain.Draft{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      req.Title,
		DraftType:  draftType,
		DraftData:  req.DraftData,
		DeviceInfo: req.DeviceInfo,
		ExpiresAt:  now.Add(s.ttl),
	}

	// country_id is denormalized from the owner's profile; a missing
	// profile must not block the save.
	if owner, err := s.users.FindByID(userID); err == nil {
		draft.CountryID = owner.CountryID
	} else if !errors.Is(err, common.ErrUserNotFound) {
		logger.Warn("profile lookup failed during draft insert: %v", err)
	}

	if err := s.drafts.Insert(draft); err != nil {
		return nil, err
	}
	return &SaveResult{DraftID: draft.ID, Created: true}, nil
}

// Autosave updates a draft in place. The payload is deep-copied through a
// serialize/deserialize pass so only plain data reaches the store.
func (s *draftService) Autosave(draftID, userID string, req *domain.AutosaveRequest) (*AutosaveResult, error) {
	sanitized, err := req.DraftData.Clone()
	if err != nil {
		return nil, common.ErrInvalidInput
	}

	fields := map[string]interface{}{
		"draft_data": *sanitized,
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		fields["title"] = title
	}
	if req.DraftType != "" {
		fields["draft_type"] = req.DraftType
	}

	draft, err := s.drafts.Update(draftID, userID, fields)
	if err != nil {
		return nil, err
	}
	return &AutosaveResult{
		DraftID:   draft.ID,
		UpdatedAt: draft.UpdatedAt,
		SaveCount: draft.SaveCount,
	}, nil
}

func (s *draftService) List(userID string) ([]domain.DraftListItem, error) {
	drafts, err := s.drafts.ListActive(userID)
	if err != nil {
		return nil, err
	}

	items := make([]domain.DraftListItem, len(drafts))
	for i := range drafts {
		d := &drafts[i]
		items[i] = domain.DraftListItem{
			ID:        d.ID,
			Title:     d.Title,
			Summary:   d.DraftData.Summary(d.DraftType),
			LastSaved: d.UpdatedAt,
			CreatedAt: d.CreatedAt,
			ExpiresAt: d.ExpiresAt,
			SaveCount: d.SaveCount,
			DraftType: d.DraftType,
		}
	}
	return items, nil
}

// Load returns a flattened draft. Expired drafts report ErrDraftExpired so
// the handler can answer 410 instead of 404.
func (s *draftService) Load(draftID, userID string) (map[string]any, error) {
	draft, err := s.drafts.FindByID(draftID, userID)
	if err != nil {
		return nil, err
	}
	if draft.Expired(time.Now()) {
		return nil, common.ErrDraftExpired
	}
	return draft.Flatten(), nil
}

func (s *draftService) Delete(draftID, userID string) error {
	return s.drafts.Delete(draftID, userID)
}
