package domain

import "time"

// PropertyStatus listing moderation state
type PropertyStatus string

const (
	PropertyStatusPending  PropertyStatus = "pending"
	PropertyStatusApproved PropertyStatus = "approved"
	PropertyStatusRejected PropertyStatus = "rejected"
)

// ListingType sale or rent, carried over from the draft's draft_type
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Property is a published listing (portal_properties table).
type Property struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID       string          `gorm:"column:owner_id;size:36;not null;index" json:"owner_id"`
	CountryID     *uint64         `gorm:"column:country_id" json:"country_id,omitempty"`
	Title         string          `gorm:"column:title;size:255;not null" json:"title"`
	Description   string          `gorm:"column:description;type:text" json:"description"`
	PropertyType  string          `gorm:"column:property_type;size:50" json:"property_type"`
	ListingType   ListingType     `gorm:"column:listing_type;size:10;default:sale" json:"listing_type"`
	Price         *float64        `gorm:"column:price" json:"price,omitempty"`
	Bedrooms      *float64        `gorm:"column:bedrooms" json:"bedrooms,omitempty"`
	Bathrooms     *float64        `gorm:"column:bathrooms" json:"bathrooms,omitempty"`
	Region        string          `gorm:"column:region;size:100" json:"region"`
	City          string          `gorm:"column:city;size:100" json:"city"`
	Location      string          `gorm:"column:location;size:255" json:"location"`
	LandSizeValue *float64        `gorm:"column:land_size_value" json:"land_size_value,omitempty"`
	LandSizeUnit  string          `gorm:"column:land_size_unit;size:20" json:"land_size_unit,omitempty"`
	ListedByType  string          `gorm:"column:listed_by_type;size:20;default:agent" json:"listed_by_type"`
	ContactEmail  string          `gorm:"column:contact_email;size:255" json:"contact_email"`
	Status        PropertyStatus  `gorm:"column:status;size:20;default:pending;index" json:"status"`
	ReviewedAt    *time.Time      `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Images        []PropertyImage `gorm:"foreignKey:PropertyID" json:"images,omitempty"`
}

func (Property) TableName() string {
	return "portal_properties"
}

// PropertyImage is one media row attached to a listing.
type PropertyImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint64    `gorm:"column:property_id;not null;index" json:"property_id"`
	URL        string    `gorm:"column:url;size:1024;not null" json:"url"`
	IsPrimary  bool      `gorm:"column:is_primary;default:false" json:"is_primary"`
	SortOrder  int       `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (PropertyImage) TableName() string {
	return "portal_property_images"
}

// PublishResponse is returned by POST /drafts/:id/publish.
type PublishResponse struct {
	Success    bool           `json:"success"`
	PropertyID uint64         `json:"property_id"`
	Status     PropertyStatus `json:"status"`
	Message    string         `json:"message"`
}

// PropertyListItem is one entry of the public listings page.
type PropertyListItem struct {
	ID           uint64         `json:"id"`
	Title        string         `json:"title"`
	PropertyType string         `json:"property_type"`
	ListingType  ListingType    `json:"listing_type"`
	Price        *float64       `json:"price,omitempty"`
	Bedrooms     *float64       `json:"bedrooms,omitempty"`
	Bathrooms    *float64       `json:"bathrooms,omitempty"`
	Region       string         `json:"region"`
	City         string         `json:"city"`
	Location     string         `json:"location"`
	Status       PropertyStatus `json:"status"`
	Thumbnail    string         `json:"thumbnail,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// UpdatePropertyStatusRequest is the moderation body.
type UpdatePropertyStatusRequest struct {
	Status PropertyStatus `json:"status" binding:"required"`
}
