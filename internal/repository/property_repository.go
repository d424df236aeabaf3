package repository

import (
	"context"

	"github.com/sjperalta/cobuy-api/internal/models"
	"gorm.io/gorm"
)

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	FindByID(ctx context.Context, id string) (*models.Property, error)
	Create(ctx context.Context, property *models.Property) error
	List(ctx context.Context, query *ListQuery) ([]models.Property, int64, error)
	FindAll(ctx context.Context) ([]models.Property, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) FindByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) List(ctx context.Context, query *ListQuery) ([]models.Property, int64, error) {
	var properties []models.Property
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Property{})
	db = search(db, query.Search, "name", "location", "description")

	if val := query.Filters["type"]; val != "" {
		db = db.Where("type = ?", val)
	}
	if val := query.Filters["location"]; val != "" {
		db = db.Where("LOWER(location) LIKE LOWER(?)", "%"+val+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = paginate(db, query, map[string]bool{"name": true, "price": true, "created_at": true}, "created_at DESC, id")

	err := db.Find(&properties).Error
	return properties, total, err
}

func (r *propertyRepository) FindAll(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).Order("id").Find(&properties).Error
	return properties, err
}
