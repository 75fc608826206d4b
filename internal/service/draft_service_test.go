package service

import (
	"errors"
	"testing"
	"time"

	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock DraftRepository ---

type mockDraftRepo struct {
	mock.Mock
}

func (m *mockDraftRepo) Insert(draft *domain.Draft) error {
	return m.Called(draft).Error(0)
}

func (m *mockDraftRepo) Update(id, userID string, fields map[string]interface{}) (*domain.Draft, error) {
	args := m.Called(id, userID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) FindByID(id, userID string) (*domain.Draft, error) {
	args := m.Called(id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) FindByIDAny(id string) (*domain.Draft, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) ListActive(userID string) ([]domain.Draft, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) FindByTitle(userID, draftType, title string) (*domain.Draft, error) {
	args := m.Called(userID, draftType, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) FindRecent(userID, draftType string, since time.Time, limit int) ([]domain.Draft, error) {
	args := m.Called(userID, draftType, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Draft), args.Error(1)
}

func (m *mockDraftRepo) Delete(id, userID string) error {
	return m.Called(id, userID).Error(0)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func newDraftService(drafts *mockDraftRepo, users *mockUserRepo) DraftService {
	return NewDraftService(drafts, users, NewDedupPolicy(0, 0, nil), 0)
}

func saleRequest(title string, payload domain.ListingPayload) *domain.SaveDraftRequest {
	return &domain.SaveDraftRequest{
		Title:     title,
		DraftType: "sale",
		DraftData: payload,
	}
}

func TestSaveTitleMatchUpdatesExistingRow(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	existing := &domain.Draft{ID: "d-1", UserID: "u-1", Title: "Lot 5 Sale", DraftType: "sale"}
	drafts.On("FindByTitle", "u-1", "sale", "Lot 5 Sale").Return(existing, nil)
	drafts.On("Update", "d-1", "u-1", mock.Anything).Return(existing, nil)

	result, err := svc.Save("u-1", saleRequest("Lot 5 Sale", domain.ListingPayload{Price: fptr(100000)}))

	assert.NoError(t, err)
	assert.Equal(t, "d-1", result.DraftID)
	assert.False(t, result.Created)
	assert.False(t, result.Explicit)
	drafts.AssertNotCalled(t, "Insert", mock.Anything)
	drafts.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// Only draft_data is redirected; the stored title stays untouched.
	fields := drafts.Calls[1].Arguments.Get(2).(map[string]interface{})
	_, touched := fields["title"]
	assert.False(t, touched)
}

func TestSaveTrimsTitleBeforeMatching(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	existing := &domain.Draft{ID: "d-1", UserID: "u-1"}
	drafts.On("FindByTitle", "u-1", "sale", "Lot 5 Sale").Return(existing, nil)
	drafts.On("Update", "d-1", "u-1", mock.Anything).Return(existing, nil)

	result, err := svc.Save("u-1", saleRequest("  Lot 5 Sale  ", domain.ListingPayload{}))

	assert.NoError(t, err)
	assert.Equal(t, "d-1", result.DraftID)
}

func TestSaveTitleMatchIgnoresExpiredRow(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	// The store filters expired rows, but even a stale read must not
	// redirect the save into a row the user can no longer load.
	stale := &domain.Draft{
		ID: "d-stale", UserID: "u-1", Title: "Lot 5 Sale", DraftType: "sale",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	drafts.On("FindByTitle", "u-1", "sale", "Lot 5 Sale").Return(stale, nil)
	users.On("FindByID", "u-1").Return(nil, common.ErrUserNotFound)
	drafts.On("Insert", mock.Anything).Return(nil)

	result, err := svc.Save("u-1", saleRequest("Lot 5 Sale", domain.ListingPayload{}))

	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEqual(t, "d-stale", result.DraftID)
	drafts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveSimilarityIgnoresExpiredCandidate(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	payload := domain.ListingPayload{
		Price:        fptr(250000),
		Bedrooms:     fptr(3),
		Region:       "Demerara-Mahaica",
		PropertyType: "House",
	}
	stale := domain.Draft{
		ID: "d-stale", UserID: "u-1", DraftType: "sale", DraftData: payload,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	drafts.On("FindRecent", "u-1", "sale", mock.Anything, 5).Return([]domain.Draft{stale}, nil)
	users.On("FindByID", "u-1").Return(nil, common.ErrUserNotFound)
	drafts.On("Insert", mock.Anything).Return(nil)

	result, err := svc.Save("u-1", saleRequest("", payload))

	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEqual(t, "d-stale", result.DraftID)
	drafts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveGenericTitleSimilarityCollapses(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	payload := domain.ListingPayload{
		Price:        fptr(250000),
		Bedrooms:     fptr(3),
		Bathrooms:    fptr(2),
		Region:       "Demerara-Mahaica",
		PropertyType: "House",
	}
	candidate := domain.Draft{ID: "d-recent", UserID: "u-1", DraftType: "sale", DraftData: payload}
	drafts.On("FindRecent", "u-1", "sale", mock.Anything, 5).Return([]domain.Draft{candidate}, nil)
	drafts.On("Update", "d-recent", "u-1", mock.Anything).Return(&candidate, nil)

	result, err := svc.Save("u-1", saleRequest("", payload))

	assert.NoError(t, err)
	assert.Equal(t, "d-recent", result.DraftID)
	assert.False(t, result.Created)
	drafts.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestSaveGenericTitleDifferentPriceInsertsNewRow(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	existing := domain.Draft{
		ID: "d-recent", UserID: "u-1", DraftType: "sale",
		DraftData: domain.ListingPayload{Price: fptr(250000), Bedrooms: fptr(3)},
	}
	drafts.On("FindRecent", "u-1", "sale", mock.Anything, 5).Return([]domain.Draft{existing}, nil)
	countryID := uint64(7)
	users.On("FindByID", "u-1").Return(&domain.User{ID: "u-1", CountryID: &countryID}, nil)

	var inserted *domain.Draft
	drafts.On("Insert", mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(0).(*domain.Draft)
	}).Return(nil)

	result, err := svc.Save("u-1", saleRequest("", domain.ListingPayload{Price: fptr(260000), Bedrooms: fptr(3)}))

	assert.NoError(t, err)
	assert.True(t, result.Created)
	assert.NotEmpty(t, result.DraftID)
	assert.NotEqual(t, "d-recent", result.DraftID)
	assert.Equal(t, &countryID, inserted.CountryID)
	assert.True(t, inserted.ExpiresAt.After(time.Now()))
	drafts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveExplicitDraftIDSkipsPolicy(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	updated := &domain.Draft{ID: "d-known", UserID: "u-1", SaveCount: 4, UpdatedAt: time.Now()}
	drafts.On("Update", "d-known", "u-1", mock.Anything).Return(updated, nil)

	req := saleRequest("Whatever", domain.ListingPayload{})
	req.DraftID = "d-known"
	result, err := svc.Save("u-1", req)

	assert.NoError(t, err)
	assert.Equal(t, "d-known", result.DraftID)
	assert.True(t, result.Explicit)
	drafts.AssertNotCalled(t, "FindByTitle", mock.Anything, mock.Anything, mock.Anything)
	drafts.AssertNotCalled(t, "FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	drafts.AssertNotCalled(t, "Insert", mock.Anything)
}

func TestSaveLookupFailureDegradesToInsert(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	drafts.On("FindByTitle", "u-1", "sale", "Lot 5 Sale").Return(nil, errors.New("connection reset"))
	users.On("FindByID", "u-1").Return(nil, common.ErrUserNotFound)
	drafts.On("Insert", mock.Anything).Return(nil)

	result, err := svc.Save("u-1", saleRequest("Lot 5 Sale", domain.ListingPayload{}))

	assert.NoError(t, err)
	assert.True(t, result.Created)
}

func TestSaveSimilarityLookupFailureDegradesToInsert(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	drafts.On("FindRecent", "u-1", "sale", mock.Anything, 5).Return(nil, errors.New("timeout"))
	users.On("FindByID", "u-1").Return(nil, common.ErrUserNotFound)
	drafts.On("Insert", mock.Anything).Return(nil)

	result, err := svc.Save("u-1", saleRequest("", domain.ListingPayload{}))

	assert.NoError(t, err)
	assert.True(t, result.Created)
}

func TestSaveDefaultsDraftTypeToSale(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	drafts.On("FindRecent", "u-1", "sale", mock.Anything, 5).Return([]domain.Draft{}, nil)
	users.On("FindByID", "u-1").Return(nil, common.ErrUserNotFound)

	var inserted *domain.Draft
	drafts.On("Insert", mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(0).(*domain.Draft)
	}).Return(nil)

	_, err := svc.Save("u-1", &domain.SaveDraftRequest{DraftData: domain.ListingPayload{}})

	assert.NoError(t, err)
	assert.Equal(t, "sale", inserted.DraftType)
}

func TestAutosaveReturnsSaveState(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	now := time.Now()
	drafts.On("Update", "d-1", "u-1", mock.Anything).
		Return(&domain.Draft{ID: "d-1", UpdatedAt: now, SaveCount: 6}, nil)

	result, err := svc.Autosave("d-1", "u-1", &domain.AutosaveRequest{
		DraftData: domain.ListingPayload{Description: "minor edit"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "d-1", result.DraftID)
	assert.Equal(t, 6, result.SaveCount)
	assert.Equal(t, now, result.UpdatedAt)
}

func TestAutosaveUnknownDraftReturnsNotFound(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	drafts.On("Update", "d-missing", "u-1", mock.Anything).Return(nil, common.ErrDraftNotFound)

	_, err := svc.Autosave("d-missing", "u-1", &domain.AutosaveRequest{})
	assert.ErrorIs(t, err, common.ErrDraftNotFound)
}

func TestLoadExpiredDraftReturnsGone(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	expired := &domain.Draft{
		ID: "d-old", UserID: "u-1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	drafts.On("FindByID", "d-old", "u-1").Return(expired, nil)

	_, err := svc.Load("d-old", "u-1")
	assert.ErrorIs(t, err, common.ErrDraftExpired)
}

func TestLoadFlattensPayload(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	draft := &domain.Draft{
		ID: "d-1", UserID: "u-1", Title: "Lot 5 Sale", DraftType: "sale",
		SaveCount: 3,
		DraftData: domain.ListingPayload{
			Price: fptr(250000),
			Extra: map[string]any{"has_pool": true},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	drafts.On("FindByID", "d-1", "u-1").Return(draft, nil)

	flat, err := svc.Load("d-1", "u-1")

	assert.NoError(t, err)
	assert.Equal(t, "d-1", flat["id"])
	assert.Equal(t, float64(250000), flat["price"])
	assert.Equal(t, true, flat["has_pool"])
	assert.Equal(t, 3, flat["save_count"])
}

func TestListBuildsSummaries(t *testing.T) {
	drafts := new(mockDraftRepo)
	users := new(mockUserRepo)
	svc := newDraftService(drafts, users)

	drafts.On("ListActive", "u-1").Return([]domain.Draft{
		{
			ID: "d-1", DraftType: "sale",
			DraftData: domain.ListingPayload{
				PropertyType: "House",
				Location:     "Georgetown",
				Price:        fptr(250000),
			},
		},
		{ID: "d-2", DraftType: "rent"},
	}, nil)

	items, err := svc.List("u-1")

	assert.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "House • Georgetown • $250,000", items[0].Summary)
	assert.Equal(t, "rent", items[1].Summary)
}
