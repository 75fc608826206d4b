package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portalhomehub/portal-backend/internal/common"
	"github.com/portalhomehub/portal-backend/internal/domain"
	"github.com/portalhomehub/portal-backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock DraftService ---

type mockDraftService struct {
	mock.Mock
}

func (m *mockDraftService) Save(userID string, req *domain.SaveDraftRequest) (*service.SaveResult, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SaveResult), args.Error(1)
}

func (m *mockDraftService) Autosave(draftID, userID string, req *domain.AutosaveRequest) (*service.AutosaveResult, error) {
	args := m.Called(draftID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AutosaveResult), args.Error(1)
}

func (m *mockDraftService) List(userID string) ([]domain.DraftListItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DraftListItem), args.Error(1)
}

func (m *mockDraftService) Load(draftID, userID string) (map[string]any, error) {
	args := m.Called(draftID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]any), args.Error(1)
}

func (m *mockDraftService) Delete(draftID, userID string) error {
	return m.Called(draftID, userID).Error(0)
}

// --- Mock PublishService ---

type mockPublishService struct {
	mock.Mock
}

func (m *mockPublishService) Publish(caller service.Caller, draftID string) (*service.PublishResult, error) {
	args := m.Called(caller, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishResult), args.Error(1)
}

func setupRouter(drafts *mockDraftService, publish *mockPublishService, identity gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDraftHandler(drafts, publish)

	router := gin.New()
	group := router.Group("/api/v1/drafts")
	if identity != nil {
		group.Use(identity)
	}
	group.POST("", h.Save)
	group.GET("", h.List)
	group.GET("/:id", h.Load)
	group.PUT("/:id", h.Autosave)
	group.DELETE("/:id", h.Delete)
	group.POST("/:id/publish", h.Publish)
	return router
}

func asUser(userID, email string, role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("email", email)
		c.Set("role", string(role))
		c.Next()
	}
}

func TestSaveWithoutIdentityIs401(t *testing.T) {
	router := setupRouter(new(mockDraftService), new(mockPublishService), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body common.FailureBody
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestSaveReturnsDraftID(t *testing.T) {
	drafts := new(mockDraftService)
	drafts.On("Save", "u-1", mock.Anything).Return(&service.SaveResult{DraftID: "d-1", Created: true}, nil)
	router := setupRouter(drafts, new(mockPublishService), asUser("u-1", "u@x", domain.RoleAgent))

	body := `{"draft_type":"sale","title":"","draft_data":{"price":250000}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.SaveDraftResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "d-1", resp.DraftID)
}

func TestLoadExpiredDraftIs410(t *testing.T) {
	drafts := new(mockDraftService)
	drafts.On("Load", "d-old", "u-1").Return(nil, common.ErrDraftExpired)
	router := setupRouter(drafts, new(mockPublishService), asUser("u-1", "u@x", domain.RoleAgent))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-old", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestLoadMissingDraftIs404(t *testing.T) {
	drafts := new(mockDraftService)
	drafts.On("Load", "d-x", "u-1").Return(nil, common.ErrDraftNotFound)
	router := setupRouter(drafts, new(mockPublishService), asUser("u-1", "u@x", domain.RoleAgent))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/drafts/d-x", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAutosaveReturnsSaveState(t *testing.T) {
	drafts := new(mockDraftService)
	now := time.Now().Truncate(time.Second)
	drafts.On("Autosave", "d-1", "u-1", mock.Anything).
		Return(&service.AutosaveResult{DraftID: "d-1", UpdatedAt: now, SaveCount: 5}, nil)
	router := setupRouter(drafts, new(mockPublishService), asUser("u-1", "u@x", domain.RoleAgent))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/drafts/d-1", bytes.NewBufferString(`{"draft_data":{}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.AutosaveResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 5, resp.SaveCount)
}

func TestPublishForbiddenRoleIs403(t *testing.T) {
	publish := new(mockPublishService)
	publish.On("Publish", mock.Anything, "d-1").Return(nil, common.ErrForbidden)
	router := setupRouter(new(mockDraftService), publish, asUser("u-1", "u@x", domain.RoleUser))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/publish", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPublishSuccessReportsStatus(t *testing.T) {
	publish := new(mockPublishService)
	publish.On("Publish", service.Caller{UserID: "u-1", Email: "u@x", Role: domain.RoleLandlord}, "d-1").
		Return(&service.PublishResult{PropertyID: 42, Status: domain.PropertyStatusPending, Message: "Property submitted for review"}, nil)
	router := setupRouter(new(mockDraftService), publish, asUser("u-1", "u@x", domain.RoleLandlord))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/drafts/d-1/publish", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.PublishResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint64(42), resp.PropertyID)
	assert.Equal(t, domain.PropertyStatusPending, resp.Status)
}
