package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	refdomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
	"gorm.io/gorm"
)

// EnsureDefaultCity seeds the configured city when the cities table is
// empty, so the first city-typed order always has a selectable option.
func EnsureDefaultCity(db *gorm.DB, genID *snowflake.Node, name string) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&refdomain.City{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		return tx.Create(&refdomain.City{
			ID:      genID.Generate(),
			Name:    name,
			NameKey: refdomain.NameKey(name),
		}).Error
	})
}
