package migration

import (
	"github.com/portalhomehub/portal-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for the portal tables. Existing tables are left
// alone apart from additive column changes.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Draft{},
		&domain.Property{},
		&domain.PropertyImage{},
	)
}
