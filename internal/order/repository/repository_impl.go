package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/orderdesk/internal/order/domain"
)

const readColumns = "orders.*, cities.name AS city_name, districts.name AS district_name"

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := readQuery(ctx, db).
		Where("orders.id = ?", id).
		Take(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Save(order).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Order{}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Order, error) {
	stmt := readQuery(ctx, db)

	switch filter.Type {
	case domain.FilterYear:
		if year := strings.TrimSpace(filter.Year); year != "" {
			stmt = stmt.
				Where("COALESCE(orders.completed_at, orders.ordered_at) IS NOT NULL").
				Where("substr(COALESCE(orders.completed_at, orders.ordered_at), 1, 4) = ?", year)
		}
	case domain.FilterYearMonth:
		year := strings.TrimSpace(filter.Year)
		month := strings.TrimSpace(filter.Month)
		if year != "" && month != "" {
			stmt = stmt.
				Where("COALESCE(orders.completed_at, orders.ordered_at) IS NOT NULL").
				Where("substr(COALESCE(orders.completed_at, orders.ordered_at), 1, 4) = ?", year).
				Where("substr(COALESCE(orders.completed_at, orders.ordered_at), 6, 2) = ?", month)
		}
	case domain.FilterPrice:
		if filter.PriceValue != nil {
			switch filter.PriceComparison {
			case domain.PriceGreaterThan:
				stmt = stmt.
					Where("orders.final_price IS NOT NULL").
					Where("orders.final_price > ?", *filter.PriceValue)
			case domain.PriceLessThan:
				stmt = stmt.
					Where("orders.final_price IS NOT NULL").
					Where("orders.final_price < ?", *filter.PriceValue)
			}
		}
	case domain.FilterLocation:
		stmt = applyLocationFilter(stmt, filter)
	case domain.FilterName:
		if name := strings.TrimSpace(filter.Name); name != "" {
			stmt = stmt.Where("orders.name LIKE ?", "%"+name+"%")
		}
	}

	var orders []domain.Order
	err := stmt.
		Order("orders.created_at DESC, orders.id DESC").
		Find(&orders).Error
	return orders, err
}

// applyLocationFilter matches both the live reference name and the
// denormalized copy, so orders written before a rename still match the
// name they carry.
func applyLocationFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	locationType := strings.TrimSpace(filter.LocationType)
	if locationType != "" {
		stmt = stmt.Where("orders.location_type = ?", locationType)
	}
	if name := strings.TrimSpace(filter.LocationName); name != "" {
		if locationType == domain.LocationTypeCity {
			stmt = stmt.Where("(cities.name = ? OR orders.location_name = ?)", name, name)
		} else {
			stmt = stmt.Where("orders.location_name = ?", name)
		}
	}
	if district := strings.TrimSpace(filter.District); district != "" && locationType == domain.LocationTypeCity {
		stmt = stmt.Where("(districts.name = ? OR orders.district = ?)", district, district)
	}
	return stmt
}

func (r *repo) InsertChanges(ctx context.Context, db *gorm.DB, changes []domain.OrderChange) error {
	if len(changes) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&changes).Error
}

func (r *repo) ListChanges(ctx context.Context, db *gorm.DB, orderID snowflake.ID) ([]domain.OrderChange, error) {
	var changes []domain.OrderChange
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at DESC, id DESC").
		Find(&changes).Error
	return changes, err
}

func (r *repo) DeleteChanges(ctx context.Context, db *gorm.DB, orderID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&domain.OrderChange{}).Error
}

func (r *repo) DistinctMonths(ctx context.Context, db *gorm.DB, year string) ([]string, error) {
	var months []string
	err := db.WithContext(ctx).Raw(`
		SELECT DISTINCT substr(COALESCE(completed_at, ordered_at), 6, 2) AS month
		FROM orders
		WHERE COALESCE(completed_at, ordered_at) IS NOT NULL
		  AND substr(COALESCE(completed_at, ordered_at), 1, 4) = ?
		ORDER BY month DESC`, year).
		Scan(&months).Error
	return months, err
}

func readQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Table("orders").
		Select(readColumns).
		Joins("LEFT JOIN cities ON cities.id = orders.city_id").
		Joins("LEFT JOIN districts ON districts.id = orders.district_id")
}
