package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository reads and upserts reference rows. Methods take the database
// handle explicitly so callers can run them inside a transaction.
type Repository interface {
	FindCityByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*City, error)
	FindDistrictByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*District, error)
	FindVillageByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Village, error)

	// Ensure* insert-if-absent by folded name and return the winning row,
	// which may be a pre-existing one with different casing.
	EnsureCity(ctx context.Context, db *gorm.DB, city *City) (*City, error)
	EnsureDistrict(ctx context.Context, db *gorm.DB, district *District) (*District, error)
	EnsureVillage(ctx context.Context, db *gorm.DB, village *Village) (*Village, error)

	RegisterYear(ctx context.Context, db *gorm.DB, year string) error

	ListCities(ctx context.Context, db *gorm.DB) ([]City, error)
	ListDistricts(ctx context.Context, db *gorm.DB) ([]District, error)
	ListDistrictsByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) ([]District, error)
	ListVillages(ctx context.Context, db *gorm.DB) ([]Village, error)
	ListYears(ctx context.Context, db *gorm.DB) ([]string, error)
}
