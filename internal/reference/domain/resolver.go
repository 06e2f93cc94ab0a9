package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Resolver turns a Selector into a canonical reference row, creating it
// when only free text is given. A nil row with nil error means the
// selector could not be resolved; callers degrade to a null location.
type Resolver interface {
	ResolveCity(ctx context.Context, db *gorm.DB, sel Selector) (*City, error)
	ResolveDistrict(ctx context.Context, db *gorm.DB, cityID snowflake.ID, sel Selector) (*District, error)
	ResolveVillage(ctx context.Context, db *gorm.DB, sel Selector) (*Village, error)
}
