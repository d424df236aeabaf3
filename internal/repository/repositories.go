package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Property     PropertyRepository
	User         UserRepository
	Project      ProjectRepository
	Plan         PlanRepository
	Notification NotificationRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Property:     NewPropertyRepository(db),
		User:         NewUserRepository(db),
		Project:      NewProjectRepository(db),
		Plan:         NewPlanRepository(db),
		Notification: NewNotificationRepository(db),
	}
}

// ListQuery represents common query parameters
type ListQuery struct {
	Page    int
	PerPage int
	Search  string
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// search applies a case-insensitive LIKE over the given columns.
// LOWER/LIKE instead of ILIKE keeps the query valid on sqlite.
func search(db *gorm.DB, term string, columns ...string) *gorm.DB {
	if term == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + term + "%"
	clause := ""
	args := make([]any, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			clause += " OR "
		}
		clause += "LOWER(" + col + ") LIKE LOWER(?)"
		args = append(args, pattern)
	}
	return db.Where(clause, args...)
}

// paginate applies sorting and pagination. Only whitelisted sort columns are used.
func paginate(db *gorm.DB, query *ListQuery, sortable map[string]bool, defaultOrder string) *gorm.DB {
	if query.SortBy != "" && sortable[query.SortBy] {
		order := query.SortBy
		if query.SortDir == "desc" {
			order += " DESC"
		}
		db = db.Order(order)
	} else {
		db = db.Order(defaultOrder)
	}

	if query.PerPage > 0 {
		page := max(query.Page, 1)
		db = db.Offset((page - 1) * query.PerPage).Limit(query.PerPage)
	}
	return db
}
