// Package fixtures holds the embedded demo catalog and seeds it into the database.
package fixtures

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/sjperalta/cobuy-api/internal/billing"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/pkg/logger"
	"gorm.io/gorm"
)

//go:embed catalog.json
var catalogJSON []byte

// Catalog is the decoded fixture set, ready to persist
type Catalog struct {
	Properties []models.Property
	Users      []models.User
	Projects   []models.Project
}

type rawCatalog struct {
	Properties []models.Property `json:"properties"`
	Users      []rawUser         `json:"users"`
	Projects   []rawProject      `json:"projects"`
}

type rawUser struct {
	ID      string             `json:"id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	Avatar  string             `json:"avatar"`
	Role    string             `json:"role"`
	Profile models.UserProfile `json:"profile"`
}

type rawProject struct {
	ID               string                  `json:"id"`
	PropertyID       string                  `json:"property_id"`
	MemberIDs        []string                `json:"member_ids"`
	Units            []models.UnitAssignment `json:"units"`
	Progress         models.ProgressStages   `json:"progress"`
	Documents        []rawDocument           `json:"documents"`
	Messages         []rawMessage            `json:"messages"`
	InstallmentPlans []rawPlan               `json:"installment_plans"`
}

type rawDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	UploadedAt string `json:"uploaded_at"`
}

type rawMessage struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Text   string `json:"text"`
	SentAt string `json:"sent_at"`
}

type rawPlan struct {
	ID                string            `json:"id"`
	UnitID            int               `json:"unit_id"`
	UserID            string            `json:"user_id"`
	Status            models.PlanStatus `json:"status"`
	TotalAmount       int64             `json:"total_amount"`
	DownPayment       int64             `json:"down_payment"`
	InstallmentAmount int64             `json:"installment_amount"`
	TotalInstallments int               `json:"total_installments"`
	StartDate         string            `json:"start_date"`
	Payments          []rawPayment      `json:"payments"`
}

type rawPayment struct {
	ID            string               `json:"id"`
	Period        string               `json:"period"`
	Amount        int64                `json:"amount"`
	DueDate       string               `json:"due_date"`
	Status        models.PaymentStatus `json:"status"`
	PaymentDate   string               `json:"payment_date"`
	PaymentMethod string               `json:"payment_method"`
}

// Load decodes the embedded catalog
func Load() (*Catalog, error) {
	return Parse(catalogJSON)
}

// Parse decodes a catalog document. Dates are parsed strictly and any
// property with an ambiguous division is rejected.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	out := &Catalog{Properties: raw.Properties}

	properties := make(map[string]*models.Property, len(raw.Properties))
	for i := range out.Properties {
		p := &out.Properties[i]
		if _, err := p.Division(); err != nil {
			return nil, fmt.Errorf("property %s: %w", p.ID, err)
		}
		properties[p.ID] = p
	}

	users := make(map[string]models.User, len(raw.Users))
	for _, u := range raw.Users {
		user := models.User{ID: u.ID, Name: u.Name, Avatar: u.Avatar, Role: u.Role, Profile: u.Profile}
		if u.Email != "" {
			email := u.Email
			user.Email = &email
		}
		users[u.ID] = user
		out.Users = append(out.Users, user)
	}

	for _, rp := range raw.Projects {
		project, err := rp.toModel(properties, users)
		if err != nil {
			return nil, fmt.Errorf("project %s: %w", rp.ID, err)
		}
		out.Projects = append(out.Projects, *project)
	}

	return out, nil
}

func (rp rawProject) toModel(properties map[string]*models.Property, users map[string]models.User) (*models.Project, error) {
	property, ok := properties[rp.PropertyID]
	if !ok {
		return nil, fmt.Errorf("unknown property %q", rp.PropertyID)
	}

	project := &models.Project{
		ID:           rp.ID,
		PropertyID:   property.ID,
		PropertyName: property.Name,
		Units:        rp.Units,
		Progress:     rp.Progress,
	}
	if len(property.Images) > 0 {
		project.PropertyImage = property.Images[0]
	}

	for _, id := range rp.MemberIDs {
		user, ok := users[id]
		if !ok {
			return nil, fmt.Errorf("unknown member %q", id)
		}
		project.Members = append(project.Members, user)
	}

	for _, d := range rp.Documents {
		uploaded, err := billing.ParseDate(d.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		project.Documents = append(project.Documents, models.Document{ID: d.ID, Name: d.Name, URL: d.URL, Status: d.Status, UploadedAt: uploaded})
	}

	for _, m := range rp.Messages {
		sent, err := billing.ParseDate(m.SentAt)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", m.ID, err)
		}
		project.Messages = append(project.Messages, models.Message{ID: m.ID, UserID: m.UserID, Text: m.Text, SentAt: sent})
	}

	for _, p := range rp.InstallmentPlans {
		plan, err := p.toModel(rp.ID)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", p.ID, err)
		}
		project.InstallmentPlans = append(project.InstallmentPlans, *plan)
	}

	return project, nil
}

func (rp rawPlan) toModel(projectID string) (*models.InstallmentPlan, error) {
	start, err := billing.ParseDate(rp.StartDate)
	if err != nil {
		return nil, err
	}

	plan := &models.InstallmentPlan{
		ID:                rp.ID,
		ProjectID:         projectID,
		UnitID:            rp.UnitID,
		UserID:            rp.UserID,
		Status:            rp.Status,
		TotalAmount:       rp.TotalAmount,
		DownPayment:       rp.DownPayment,
		InstallmentAmount: rp.InstallmentAmount,
		TotalInstallments: rp.TotalInstallments,
		StartDate:         start,
	}

	for _, rpay := range rp.Payments {
		due, err := billing.ParseDate(rpay.DueDate)
		if err != nil {
			return nil, fmt.Errorf("payment %s: %w", rpay.ID, err)
		}
		payment := models.MonthlyPayment{
			ID:      rpay.ID,
			PlanID:  rp.ID,
			UserID:  rp.UserID,
			UnitID:  rp.UnitID,
			Period:  rpay.Period,
			Amount:  rpay.Amount,
			DueDate: due,
			Status:  rpay.Status,
		}
		if rpay.PaymentDate != "" {
			paid, err := billing.ParseDate(rpay.PaymentDate)
			if err != nil {
				return nil, fmt.Errorf("payment %s: %w", rpay.ID, err)
			}
			payment.PaymentDate = &paid
		}
		if rpay.PaymentMethod != "" {
			method := rpay.PaymentMethod
			payment.PaymentMethod = &method
		}
		plan.Payments = append(plan.Payments, payment)
	}

	return plan, nil
}

// Seed writes the catalog when the database holds no users, or always when
// force is set. Existing rows are left untouched.
func Seed(ctx context.Context, db *gorm.DB, catalog *Catalog, force bool) error {
	repos := repository.NewRepositories(db)

	if !force {
		count, err := repos.User.Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		if count > 0 {
			logger.Debug("Database already seeded, skipping fixtures", "users", count)
			return nil
		}
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepos := repository.NewRepositories(tx)

		for i := range catalog.Properties {
			if err := firstOrCreate(tx, &catalog.Properties[i], catalog.Properties[i].ID); err != nil {
				return fmt.Errorf("failed to seed property %s: %w", catalog.Properties[i].ID, err)
			}
		}
		for i := range catalog.Users {
			if err := firstOrCreate(tx, &catalog.Users[i], catalog.Users[i].ID); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", catalog.Users[i].ID, err)
			}
		}
		for i := range catalog.Projects {
			project := catalog.Projects[i]
			if _, err := txRepos.Project.FindByID(ctx, project.ID); err == nil {
				continue
			}
			if err := txRepos.Project.Create(ctx, &project); err != nil {
				return fmt.Errorf("failed to seed project %s: %w", project.ID, err)
			}
		}

		logger.Info("Fixtures seeded",
			"properties", len(catalog.Properties),
			"users", len(catalog.Users),
			"projects", len(catalog.Projects),
		)
		return nil
	})
}

func firstOrCreate(tx *gorm.DB, value any, id string) error {
	return tx.Where("id = ?", id).FirstOrCreate(value).Error
}
