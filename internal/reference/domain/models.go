package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// City is shared reference data. Rows are created on first mention and
// never deleted; orders point at them by id and keep a denormalized copy
// of the name.
type City struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	NameKey   string       `gorm:"not null;uniqueIndex:idx_cities_name_key" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

func (City) TableName() string { return "cities" }

// District is scoped to its owning city; the same name under another city
// is a distinct row.
type District struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CityID    snowflake.ID `gorm:"not null;uniqueIndex:idx_districts_city_name_key" json:"city_id"`
	Name      string       `gorm:"not null" json:"name"`
	NameKey   string       `gorm:"not null;uniqueIndex:idx_districts_city_name_key" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

func (District) TableName() string { return "districts" }

// Village is independent of any city.
type Village struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	NameKey   string       `gorm:"not null;uniqueIndex:idx_villages_name_key" json:"-"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
}

func (Village) TableName() string { return "villages" }

// Year indexes the years in which any order was placed or completed; it
// only feeds filter option lists.
type Year struct {
	Year string `gorm:"primaryKey;column:year" json:"year"`
}

func (Year) TableName() string { return "years" }

// NameKey folds a display name for case-insensitive matching. Folding
// happens in Go so that non-ASCII names compare equal too; SQLite's NOCASE
// only handles ASCII.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
