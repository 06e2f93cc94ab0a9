// Package audit computes field-level change records between two order
// snapshots. The audited field set is fixed; schema columns added later
// must be enrolled here explicitly before they show up in history.
package audit

import (
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/smallbiznis/orderdesk/internal/order/domain"
)

type auditedField struct {
	name  string
	value func(*domain.Order) *string
}

// auditedFields fixes both the set of tracked columns and the order in
// which same-timestamp changes are emitted. Identity and bookkeeping
// columns (id, created_at, updated_at) and joined display names are
// deliberately absent.
var auditedFields = []auditedField{
	{"name", func(o *domain.Order) *string { return stringValue(o.Name) }},
	{"location_type", func(o *domain.Order) *string { return stringPtrValue(o.LocationType) }},
	{"location_name", func(o *domain.Order) *string { return stringPtrValue(o.LocationName) }},
	{"district", func(o *domain.Order) *string { return stringPtrValue(o.District) }},
	{"city_id", func(o *domain.Order) *string { return idValue(o.CityID) }},
	{"district_id", func(o *domain.Order) *string { return idValue(o.DistrictID) }},
	{"final_price", func(o *domain.Order) *string { return floatValue(o.FinalPrice) }},
	{"deposit", func(o *domain.Order) *string { return floatValue(o.Deposit) }},
	{"is_completed", func(o *domain.Order) *string { return boolValue(o.IsCompleted) }},
	{"ordered_at", func(o *domain.Order) *string { return stringPtrValue(o.OrderedAt) }},
	{"completed_at", func(o *domain.Order) *string { return stringPtrValue(o.CompletedAt) }},
	{"description", func(o *domain.Order) *string { return stringPtrValue(o.Description) }},
}

// Diff returns one OrderChange per audited field whose normalized value
// differs between prev and next, stamped with at. Equal snapshots yield
// no changes at all. OrderID and the row id are left for the caller.
func Diff(prev, next *domain.Order, at time.Time) []domain.OrderChange {
	var changes []domain.OrderChange
	for _, f := range auditedFields {
		oldValue := f.value(prev)
		newValue := f.value(next)
		if equal(oldValue, newValue) {
			continue
		}
		changes = append(changes, domain.OrderChange{
			Field:     f.name,
			OldValue:  oldValue,
			NewValue:  newValue,
			ChangedAt: at,
		})
	}
	return changes
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringPtrValue(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

// floatValue renders without a fixed precision so 10 and 10.00 compare
// equal ("10") while 10.5 stays distinct.
func floatValue(f *float64) *string {
	if f == nil {
		return nil
	}
	v := strconv.FormatFloat(*f, 'f', -1, 64)
	return &v
}

func boolValue(b bool) *string {
	v := strconv.FormatBool(b)
	return &v
}

func idValue(id *snowflake.ID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
