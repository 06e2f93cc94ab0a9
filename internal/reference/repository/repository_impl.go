package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orderdesk/internal/reference/domain"
	pkgdb "github.com/smallbiznis/orderdesk/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCityByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.City, error) {
	var city domain.City
	err := db.WithContext(ctx).Where("id = ?", id).First(&city).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &city, nil
}

func (r *repo) FindDistrictByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.District, error) {
	var district domain.District
	err := db.WithContext(ctx).Where("id = ?", id).First(&district).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &district, nil
}

func (r *repo) FindVillageByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Village, error) {
	var village domain.Village
	err := db.WithContext(ctx).Where("id = ?", id).First(&village).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &village, nil
}

// EnsureCity inserts the candidate row unless a case-insensitive match
// exists, then re-selects by folded name. Concurrent creators race on the
// unique index; whoever loses still reads the winner's row back.
func (r *repo) EnsureCity(ctx context.Context, db *gorm.DB, city *domain.City) (*domain.City, error) {
	city.NameKey = domain.NameKey(city.Name)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(city).Error
	if err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return nil, err
	}

	var out domain.City
	if err := db.WithContext(ctx).Where("name_key = ?", city.NameKey).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) EnsureDistrict(ctx context.Context, db *gorm.DB, district *domain.District) (*domain.District, error) {
	district.NameKey = domain.NameKey(district.Name)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(district).Error
	if err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return nil, err
	}

	var out domain.District
	if err := db.WithContext(ctx).
		Where("city_id = ? AND name_key = ?", district.CityID, district.NameKey).
		First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) EnsureVillage(ctx context.Context, db *gorm.DB, village *domain.Village) (*domain.Village, error) {
	village.NameKey = domain.NameKey(village.Name)
	err := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(village).Error
	if err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return nil, err
	}

	var out domain.Village
	if err := db.WithContext(ctx).Where("name_key = ?", village.NameKey).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *repo) RegisterYear(ctx context.Context, db *gorm.DB, year string) error {
	if len(year) != 4 {
		return nil
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&domain.Year{Year: year}).Error
	if err != nil && !pkgdb.IsDuplicateKeyErr(err) {
		return err
	}
	return nil
}

func (r *repo) ListCities(ctx context.Context, db *gorm.DB) ([]domain.City, error) {
	var cities []domain.City
	err := db.WithContext(ctx).Order("name").Find(&cities).Error
	return cities, err
}

func (r *repo) ListDistricts(ctx context.Context, db *gorm.DB) ([]domain.District, error) {
	var districts []domain.District
	err := db.WithContext(ctx).Order("name").Find(&districts).Error
	return districts, err
}

func (r *repo) ListDistrictsByCity(ctx context.Context, db *gorm.DB, cityID snowflake.ID) ([]domain.District, error) {
	var districts []domain.District
	err := db.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&districts).Error
	return districts, err
}

func (r *repo) ListVillages(ctx context.Context, db *gorm.DB) ([]domain.Village, error) {
	var villages []domain.Village
	err := db.WithContext(ctx).Order("name").Find(&villages).Error
	return villages, err
}

func (r *repo) ListYears(ctx context.Context, db *gorm.DB) ([]string, error) {
	var years []string
	err := db.WithContext(ctx).
		Model(&domain.Year{}).
		Order("year DESC").
		Pluck("year", &years).Error
	return years, err
}
