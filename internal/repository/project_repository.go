package repository

import (
	"context"

	"github.com/sjperalta/cobuy-api/internal/models"
	"gorm.io/gorm"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, project *models.Project) error
	Update(ctx context.Context, project *models.Project) error
	List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error)
	FindByMember(ctx context.Context, userID string) ([]models.Project, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// withDetails preloads every association, payments in due date order
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("users.id") }).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order("unit_id") }).
		Preload("Documents").
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at") }).
		Preload("InstallmentPlans", func(db *gorm.DB) *gorm.DB { return db.Order("unit_id") }).
		Preload("InstallmentPlans.Payments", func(db *gorm.DB) *gorm.DB { return db.Order("due_date, id") })
}

func (r *projectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := withDetails(r.db.WithContext(ctx)).Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Omit("Members.*").Save(project).Error
}

func (r *projectRepository) List(ctx context.Context, query *ListQuery) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Project{})
	db = search(db, query.Search, "property_name")

	if val := query.Filters["property_id"]; val != "" {
		db = db.Where("property_id = ?", val)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = paginate(db, query, map[string]bool{"property_name": true, "created_at": true}, "created_at DESC, id")

	err := withDetails(db).Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) FindByMember(ctx context.Context, userID string) ([]models.Project, error) {
	var projects []models.Project
	db := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Table("project_members").Select("project_id").Where("user_id = ?", userID)).
		Order("id")
	err := withDetails(db).Find(&projects).Error
	return projects, err
}
