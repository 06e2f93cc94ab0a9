package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	LocationTypeCity    = "city"
	LocationTypeVillage = "village"
)

// Order is a customer booking. Location fields are denormalized copies of
// the resolved reference rows so renames never corrupt old orders;
// CityName/DistrictName are joined in on reads and never persisted here.
type Order struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	LocationType *string       `gorm:"column:location_type" json:"location_type"`
	LocationName *string       `gorm:"column:location_name" json:"location_name"`
	District     *string       `gorm:"column:district" json:"district"`
	CityID       *snowflake.ID `gorm:"column:city_id" json:"city_id"`
	DistrictID   *snowflake.ID `gorm:"column:district_id" json:"district_id"`
	FinalPrice   *float64      `gorm:"column:final_price" json:"final_price"`
	Deposit      *float64      `gorm:"column:deposit" json:"deposit"`
	IsCompleted  bool          `gorm:"not null;default:false" json:"is_completed"`
	OrderedAt    *string       `gorm:"column:ordered_at" json:"ordered_at"`
	CompletedAt  *string       `gorm:"column:completed_at" json:"completed_at"`
	Description  *string       `gorm:"column:description" json:"description"`

	// Both timestamps come from the service clock; gorm tracking is off.
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updated_at"`

	CityName     *string `gorm:"->;-:migration" json:"city_name,omitempty"`
	DistrictName *string `gorm:"->;-:migration" json:"district_name,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderChange is one field-level before/after pair. Rows are append-only
// and only ever removed together with their order.
type OrderChange struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrderID   snowflake.ID `gorm:"not null;index:idx_order_changes_order_id" json:"order_id"`
	Field     string       `gorm:"not null" json:"field"`
	OldValue  *string      `gorm:"column:old_value" json:"old_value"`
	NewValue  *string      `gorm:"column:new_value" json:"new_value"`
	ChangedAt time.Time    `gorm:"not null" json:"changed_at"`
}

func (OrderChange) TableName() string { return "order_changes" }

// OrderInput carries everything a create or update may set. Location is a
// free-text-or-reference pair per entity kind; ids win over text.
type OrderInput struct {
	Name         string
	LocationType string
	LocationName string
	VillageID    snowflake.ID
	CityID       snowflake.ID
	CityName     string
	DistrictID   snowflake.ID
	DistrictName string
	FinalPrice   *float64
	Deposit      *float64
	IsCompleted  bool
	OrderedAt    string
	CompletedAt  string
	Description  string
}

// CompletionOption is one year with the months in which orders were
// placed or completed, both descending.
type CompletionOption struct {
	Year   string   `json:"year"`
	Months []string `json:"months"`
}
