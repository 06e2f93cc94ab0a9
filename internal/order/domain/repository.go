package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists orders and their change history. Methods take the
// database handle explicitly so the service can run a whole mutation in
// one transaction.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Order, error)

	InsertChanges(ctx context.Context, db *gorm.DB, changes []OrderChange) error
	ListChanges(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]OrderChange, error)
	DeleteChanges(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error

	DistinctMonths(ctx context.Context, db *gorm.DB, year string) ([]string, error)
}
