package domain

import "time"

// Draft represents an in-progress property submission (portal_drafts table).
// One row per editing session; destroyed by explicit delete or by publish.
type Draft struct {
	ID         string         `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID     string         `gorm:"column:user_id;size:36;index" json:"user_id"`
	CountryID  *uint64        `gorm:"column:country_id" json:"country_id,omitempty"`
	Title      string         `gorm:"column:title;size:255" json:"title"`
	DraftType  string         `gorm:"column:draft_type;size:20;default:sale" json:"draft_type"`
	DraftData  ListingPayload `gorm:"column:draft_data;type:json" json:"draft_data"`
	DeviceInfo string         `gorm:"column:device_info;size:512" json:"device_info,omitempty"`
	SaveCount  int            `gorm:"column:save_count;default:0" json:"save_count"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at" json:"updated_at"`
	ExpiresAt  time.Time      `gorm:"column:expires_at;index" json:"expires_at"`
}

// TableName returns the table name for Draft
func (Draft) TableName() string {
	return "portal_drafts"
}

// Expired reports whether the draft is past its horizon. Expired drafts are
// inert: not loadable, not publishable, purged elsewhere.
func (d *Draft) Expired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && !now.Before(d.ExpiresAt)
}

// SaveDraftRequest is the smart-create body. A non-empty DraftID routes the
// write straight to the update path.
type SaveDraftRequest struct {
	DraftID    string         `json:"draft_id"`
	Title      string         `json:"title"`
	DraftType  string         `json:"draft_type"`
	DraftData  ListingPayload `json:"draft_data"`
	DeviceInfo string         `json:"device_info"`
}

// AutosaveRequest is the explicit update body for PUT /drafts/:id.
type AutosaveRequest struct {
	Title     string         `json:"title"`
	DraftType string         `json:"draft_type"`
	DraftData ListingPayload `json:"draft_data"`
}

// SaveDraftResponse is returned by the smart-create endpoint.
type SaveDraftResponse struct {
	Success bool   `json:"success"`
	DraftID string `json:"draft_id"`
	Message string `json:"message"`
}

// AutosaveResponse lets the client reflect "last saved" state.
type AutosaveResponse struct {
	Success   bool      `json:"success"`
	DraftID   string    `json:"draft_id"`
	UpdatedAt time.Time `json:"updated_at"`
	SaveCount int       `json:"save_count"`
	Message   string    `json:"message"`
}

// DraftListItem is one entry of the draft list view. Summary is derived, not
// stored.
type DraftListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	LastSaved time.Time `json:"last_saved"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	SaveCount int       `json:"save_count"`
	DraftType string    `json:"draft_type"`
}

// DraftListResponse wraps GET /drafts.
type DraftListResponse struct {
	Success bool            `json:"success"`
	Drafts  []DraftListItem `json:"drafts"`
}

// DeleteDraftResponse wraps DELETE /drafts/:id.
type DeleteDraftResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Flatten returns the single-draft load shape: the payload spread at the top
// level with the lifecycle fields layered over it.
func (d *Draft) Flatten() map[string]any {
	out := d.DraftData.AsMap()
	out["id"] = d.ID
	out["title"] = d.Title
	out["draft_type"] = d.DraftType
	out["save_count"] = d.SaveCount
	out["created_at"] = d.CreatedAt
	out["updated_at"] = d.UpdatedAt
	out["expires_at"] = d.ExpiresAt
	return out
}
