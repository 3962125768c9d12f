package specification

import "gorm.io/gorm"

// Specification composes query fragments applied by repositories.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
