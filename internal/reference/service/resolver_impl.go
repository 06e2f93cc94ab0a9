package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orderdesk/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Resolver struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Resolver {
	return &Resolver{
		log:   p.Log.Named("reference.resolver"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

// ResolveCity trusts a supplied reference id: when it does not exist the
// result is nil, with no fallback to free text. Free text upserts by
// folded name, keeping the stored casing of an existing match.
func (r *Resolver) ResolveCity(ctx context.Context, db *gorm.DB, sel domain.Selector) (*domain.City, error) {
	if sel.HasID() {
		return r.repo.FindCityByID(ctx, db, sel.ID)
	}

	name := sel.FreeText()
	if name == "" {
		return nil, nil
	}
	return r.repo.EnsureCity(ctx, db, &domain.City{
		ID:   r.genID.Generate(),
		Name: name,
	})
}

// ResolveDistrict behaves like ResolveCity but is scoped to the owning
// city. A reference id pointing at another city's district resolves to
// nil so an order can never link a district outside its city.
func (r *Resolver) ResolveDistrict(ctx context.Context, db *gorm.DB, cityID snowflake.ID, sel domain.Selector) (*domain.District, error) {
	if cityID == 0 {
		return nil, nil
	}

	if sel.HasID() {
		district, err := r.repo.FindDistrictByID(ctx, db, sel.ID)
		if err != nil {
			return nil, err
		}
		if district != nil && district.CityID != cityID {
			r.log.Warn("district reference outside city ignored",
				zap.Int64("district_id", int64(sel.ID)),
				zap.Int64("city_id", int64(cityID)),
			)
			return nil, nil
		}
		return district, nil
	}

	name := sel.FreeText()
	if name == "" {
		return nil, nil
	}
	return r.repo.EnsureDistrict(ctx, db, &domain.District{
		ID:     r.genID.Generate(),
		CityID: cityID,
		Name:   name,
	})
}

// ResolveVillage tries a reference id first and, unlike cities, falls
// through to the free text when the id is stale.
func (r *Resolver) ResolveVillage(ctx context.Context, db *gorm.DB, sel domain.Selector) (*domain.Village, error) {
	if sel.HasID() {
		village, err := r.repo.FindVillageByID(ctx, db, sel.ID)
		if err != nil {
			return nil, err
		}
		if village != nil {
			return village, nil
		}
	}

	name := sel.FreeText()
	if name == "" {
		return nil, nil
	}
	return r.repo.EnsureVillage(ctx, db, &domain.Village{
		ID:   r.genID.Generate(),
		Name: name,
	})
}
