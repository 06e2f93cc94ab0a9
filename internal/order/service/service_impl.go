package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/orderdesk/internal/audit"
	"github.com/smallbiznis/orderdesk/internal/clock"
	"github.com/smallbiznis/orderdesk/internal/order/domain"
	refdomain "github.com/smallbiznis/orderdesk/internal/reference/domain"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	DB       *gorm.DB
	Clock    clock.Clock
	GenID    *snowflake.Node
	Repo     domain.Repository
	RefRepo  refdomain.Repository
	Resolver refdomain.Resolver
}

type Service struct {
	log      *zap.Logger
	db       *gorm.DB
	clock    clock.Clock
	genID    *snowflake.Node
	repo     domain.Repository
	refRepo  refdomain.Repository
	resolver refdomain.Resolver
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("order.service"),
		db:       p.DB,
		clock:    p.Clock,
		genID:    p.GenID,
		repo:     p.Repo,
		refRepo:  p.RefRepo,
		resolver: p.Resolver,
	}
}

// Create validates, resolves the location, registers the affected years
// and inserts the row, all inside one transaction. Partial orders are
// never visible.
func (s *Service) Create(ctx context.Context, input domain.OrderInput) (snowflake.ID, error) {
	order, err := newSnapshot(input)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	order.ID = s.genID.Generate()
	order.CreatedAt = now
	order.UpdatedAt = now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.applyLocation(ctx, tx, order, input); err != nil {
			return err
		}
		if err := s.registerYears(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.Insert(ctx, tx, order)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("order created", zap.String("order_id", order.ID.String()))
	return order.ID, nil
}

// Update replaces the whole order with a snapshot rebuilt from the input
// and records a field-level diff against the previous row in the same
// transaction. updated_at moves even when the diff is empty.
func (s *Service) Update(ctx context.Context, id snowflake.ID, input domain.OrderInput) error {
	next, err := newSnapshot(input)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}

		now := s.clock.Now()
		next.ID = existing.ID
		next.CreatedAt = existing.CreatedAt
		next.UpdatedAt = now

		if err := s.applyLocation(ctx, tx, next, input); err != nil {
			return err
		}

		changes := audit.Diff(existing, next, now)
		for i := range changes {
			changes[i].ID = s.genID.Generate()
			changes[i].OrderID = existing.ID
		}

		if err := s.registerYears(ctx, tx, next); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, next); err != nil {
			return err
		}
		return s.repo.InsertChanges(ctx, tx, changes)
	})
}

// Delete removes the order together with its change history. The
// history rows go first so a failed delete leaves both intact.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if err := s.repo.DeleteChanges(ctx, tx, id); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]domain.Order, error) {
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) History(ctx context.Context, orderID snowflake.ID) ([]domain.OrderChange, error) {
	return s.repo.ListChanges(ctx, s.db, orderID)
}

// CompletionOptions lists every registered year, newest first, each with
// the months that actually hold orders. Years whose orders were all
// deleted stay in the list with no months.
func (s *Service) CompletionOptions(ctx context.Context) ([]domain.CompletionOption, error) {
	years, err := s.refRepo.ListYears(ctx, s.db)
	if err != nil {
		return nil, err
	}

	options := make([]domain.CompletionOption, 0, len(years))
	for _, year := range years {
		months, err := s.repo.DistinctMonths(ctx, s.db, year)
		if err != nil {
			return nil, err
		}
		options = append(options, domain.CompletionOption{Year: year, Months: months})
	}
	return options, nil
}

// newSnapshot builds the non-location part of an order row from the
// input. Location fields are filled by applyLocation afterwards.
func newSnapshot(input domain.OrderInput) (*domain.Order, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if input.FinalPrice != nil && *input.FinalPrice < 0 {
		return nil, domain.ErrInvalidFinalPrice
	}
	if input.Deposit != nil && *input.Deposit < 0 {
		return nil, domain.ErrInvalidDeposit
	}

	return &domain.Order{
		Name:        name,
		FinalPrice:  input.FinalPrice,
		Deposit:     input.Deposit,
		IsCompleted: input.IsCompleted,
		OrderedAt:   trimmedOrNil(input.OrderedAt),
		CompletedAt: trimmedOrNil(input.CompletedAt),
		Description: trimmedOrNil(input.Description),
	}, nil
}

// applyLocation resolves the input's location block onto the order. An
// unresolvable selector degrades to null location fields instead of
// failing the mutation.
func (s *Service) applyLocation(ctx context.Context, tx *gorm.DB, order *domain.Order, input domain.OrderInput) error {
	switch input.LocationType {
	case domain.LocationTypeCity:
		order.LocationType = ptr(domain.LocationTypeCity)

		city, err := s.resolver.ResolveCity(ctx, tx, refdomain.Selector{ID: input.CityID, Name: input.CityName})
		if err != nil {
			return err
		}
		if city == nil {
			return nil
		}
		order.CityID = &city.ID
		order.LocationName = ptr(city.Name)

		district, err := s.resolver.ResolveDistrict(ctx, tx, city.ID, refdomain.Selector{ID: input.DistrictID, Name: input.DistrictName})
		if err != nil {
			return err
		}
		if district != nil {
			order.DistrictID = &district.ID
			order.District = ptr(district.Name)
		}

	case domain.LocationTypeVillage:
		order.LocationType = ptr(domain.LocationTypeVillage)

		village, err := s.resolver.ResolveVillage(ctx, tx, refdomain.Selector{ID: input.VillageID, Name: input.LocationName})
		if err != nil {
			return err
		}
		name := strings.TrimSpace(input.LocationName)
		if village != nil {
			name = village.Name
		}
		order.LocationName = trimmedOrNil(name)
	}
	return nil
}

// registerYears records the year of each set date so it shows up in the
// completion filter, for village orders included.
func (s *Service) registerYears(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	for _, date := range []*string{order.OrderedAt, order.CompletedAt} {
		if date == nil || len(*date) < 4 {
			continue
		}
		if err := s.refRepo.RegisterYear(ctx, tx, (*date)[:4]); err != nil {
			return err
		}
	}
	return nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func ptr(s string) *string { return &s }
