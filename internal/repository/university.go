package repository

import (
	"context"
	"errors"

	"unimarket/internal/cache"
	"unimarket/internal/models"

	"gorm.io/gorm"
)

// UniversityRepository defines persistence operations for universities.
type UniversityRepository interface {
	List(ctx context.Context) ([]models.University, error)
	GetByID(ctx context.Context, id uint) (*models.University, error)
}

type universityRepository struct {
	db *gorm.DB
}

// NewUniversityRepository returns a new UniversityRepository implementation.
func NewUniversityRepository(db *gorm.DB) UniversityRepository {
	return &universityRepository{db: db}
}

func (r *universityRepository) List(ctx context.Context) ([]models.University, error) {
	var universities []models.University
	err := cache.Aside(ctx, cache.UniversitiesKey, &universities, cache.CategoryTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).Order("name ASC").Find(&universities).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return universities, nil
}

func (r *universityRepository) GetByID(ctx context.Context, id uint) (*models.University, error) {
	var university models.University
	if err := readDB(r.db).WithContext(ctx).First(&university, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("University", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &university, nil
}
