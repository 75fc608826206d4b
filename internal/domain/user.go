package domain

import "time"

// User is the account profile (portal_users table). Credentials live with
// the external auth collaborator; this service only reads the profile.
type User struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Email     string    `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	Name      string    `gorm:"column:name;size:100" json:"name"`
	Role      Role      `gorm:"column:role;size:20;default:user" json:"role"`
	CountryID *uint64   `gorm:"column:country_id" json:"country_id,omitempty"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "portal_users"
}
