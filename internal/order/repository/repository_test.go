package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smallbiznis/orderdesk/internal/order/domain"
	refdomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&refdomain.City{},
		&refdomain.District{},
		&domain.Order{},
		&domain.OrderChange{},
	))
	return db
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func idPtr(i snowflake.ID) *snowflake.ID { return &i }

// seedOrders inserts three orders with distinct creation times: a Sofia
// city order completed in 2024-03, a village order from 2023 and a bare
// order with no location or dates.
func seedOrders(t *testing.T, db *gorm.DB, r domain.Repository) (sofia, village, bare snowflake.ID) {
	t.Helper()
	ctx := context.Background()

	city := refdomain.City{ID: 1, Name: "София", NameKey: refdomain.NameKey("София")}
	require.NoError(t, db.Create(&city).Error)
	district := refdomain.District{ID: 2, CityID: city.ID, Name: "Лозенец", NameKey: refdomain.NameKey("Лозенец")}
	require.NoError(t, db.Create(&district).Error)

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.Insert(ctx, db, &domain.Order{
		ID:           10,
		Name:         "Иван Петров",
		LocationType: strPtr(domain.LocationTypeCity),
		LocationName: strPtr("София"),
		District:     strPtr("Лозенец"),
		CityID:       idPtr(city.ID),
		DistrictID:   idPtr(district.ID),
		FinalPrice:   floatPtr(100),
		OrderedAt:    strPtr("2024-02-10"),
		CompletedAt:  strPtr("2024-03-05"),
		CreatedAt:    base,
		UpdatedAt:    base,
	}))
	require.NoError(t, r.Insert(ctx, db, &domain.Order{
		ID:           11,
		Name:         "Мария Георгиева",
		LocationType: strPtr(domain.LocationTypeVillage),
		LocationName: strPtr("Лозен"),
		FinalPrice:   floatPtr(40),
		OrderedAt:    strPtr("2023-07-01"),
		CreatedAt:    base.Add(time.Hour),
		UpdatedAt:    base.Add(time.Hour),
	}))
	require.NoError(t, r.Insert(ctx, db, &domain.Order{
		ID:        12,
		Name:      "Петър Иванов",
		CreatedAt: base.Add(2 * time.Hour),
		UpdatedAt: base.Add(2 * time.Hour),
	}))

	return 10, 11, 12
}

func TestListAllNewestFirst(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, village, bare := seedOrders(t, db, r)

	orders, err := r.List(context.Background(), db, domain.ListFilter{Type: domain.FilterAll})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, bare, orders[0].ID)
	assert.Equal(t, village, orders[1].ID)
	assert.Equal(t, sofia, orders[2].ID)

	// Joined names ride along on list reads.
	require.NotNil(t, orders[2].CityName)
	assert.Equal(t, "София", *orders[2].CityName)
	require.NotNil(t, orders[2].DistrictName)
	assert.Equal(t, "Лозенец", *orders[2].DistrictName)
	assert.Nil(t, orders[0].CityName)
}

func TestListYearFilterPrefersCompletedAt(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, village, _ := seedOrders(t, db, r)
	ctx := context.Background()

	orders, err := r.List(ctx, db, domain.ListFilter{Type: domain.FilterYear, Year: "2024"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sofia, orders[0].ID)

	orders, err = r.List(ctx, db, domain.ListFilter{Type: domain.FilterYear, Year: "2023"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, village, orders[0].ID)

	// Missing year degrades to no predicate.
	orders, err = r.List(ctx, db, domain.ListFilter{Type: domain.FilterYear})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestListYearMonthFilter(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, _, _ := seedOrders(t, db, r)
	ctx := context.Background()

	orders, err := r.List(ctx, db, domain.ListFilter{Type: domain.FilterYearMonth, Year: "2024", Month: "03"})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sofia, orders[0].ID)

	// The order was placed in February but completed in March;
	// completed_at decides the bucket.
	orders, err = r.List(ctx, db, domain.ListFilter{Type: domain.FilterYearMonth, Year: "2024", Month: "02"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestListPriceFilter(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, village, _ := seedOrders(t, db, r)
	ctx := context.Background()

	orders, err := r.List(ctx, db, domain.ListFilter{
		Type:            domain.FilterPrice,
		PriceComparison: domain.PriceGreaterThan,
		PriceValue:      floatPtr(50),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sofia, orders[0].ID)

	orders, err = r.List(ctx, db, domain.ListFilter{
		Type:            domain.FilterPrice,
		PriceComparison: domain.PriceLessThan,
		PriceValue:      floatPtr(50),
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, village, orders[0].ID)

	// No comparison operator means no predicate at all.
	orders, err = r.List(ctx, db, domain.ListFilter{Type: domain.FilterPrice, PriceValue: floatPtr(50)})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestListLocationFilterMatchesCanonicalAndLegacyNames(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, village, _ := seedOrders(t, db, r)
	ctx := context.Background()

	// Rename the city; the order still carries the old denormalized name.
	require.NoError(t, db.Model(&refdomain.City{}).Where("id = ?", 1).
		Updates(map[string]any{"name": "София-град", "name_key": refdomain.NameKey("София-град")}).Error)

	for _, name := range []string{"София", "София-град"} {
		orders, err := r.List(ctx, db, domain.ListFilter{
			Type:         domain.FilterLocation,
			LocationType: domain.LocationTypeCity,
			LocationName: name,
		})
		require.NoError(t, err)
		require.Len(t, orders, 1, "name %q", name)
		assert.Equal(t, sofia, orders[0].ID)
	}

	orders, err := r.List(ctx, db, domain.ListFilter{
		Type:         domain.FilterLocation,
		LocationType: domain.LocationTypeCity,
		LocationName: "София",
		District:     "Лозенец",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, sofia, orders[0].ID)

	orders, err = r.List(ctx, db, domain.ListFilter{
		Type:         domain.FilterLocation,
		LocationType: domain.LocationTypeVillage,
		LocationName: "Лозен",
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, village, orders[0].ID)
}

func TestListNameFilterSubstring(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	sofia, _, bare := seedOrders(t, db, r)

	orders, err := r.List(context.Background(), db, domain.ListFilter{Type: domain.FilterName, Name: "Иван"})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, bare, orders[0].ID)
	assert.Equal(t, sofia, orders[1].ID)
}

func TestDistinctMonthsDescending(t *testing.T) {
	db := newTestDB(t)
	r := Provide()
	ctx := context.Background()

	now := time.Now().UTC()
	for i, date := range []string{"2024-01-05", "2024-09-01", "2024-09-20", "2024-04-11"} {
		require.NoError(t, r.Insert(ctx, db, &domain.Order{
			ID:        snowflake.ID(100 + i),
			Name:      "x",
			OrderedAt: strPtr(date),
			CreatedAt: now,
			UpdatedAt: now,
		}))
	}

	months, err := r.DistinctMonths(ctx, db, "2024")
	require.NoError(t, err)
	assert.Equal(t, []string{"09", "04", "01"}, months)

	months, err = r.DistinctMonths(ctx, db, "2023")
	require.NoError(t, err)
	assert.Empty(t, months)
}
