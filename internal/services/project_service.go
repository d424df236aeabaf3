package services

import (
	"context"
	"time"

	"github.com/sjperalta/cobuy-api/internal/billing"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
)

type ProjectService struct {
	repo repository.ProjectRepository
}

func NewProjectService(repo repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// ProjectDetail is a project with its derived progress figures
type ProjectDetail struct {
	*models.Project
	OverallProgress int                   `json:"overall_progress"`
	PaymentProgress billing.Progress      `json:"payment_progress"`
	Plans           []billing.PlanSummary `json:"plans"`
}

func (s *ProjectService) FindByID(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "project", id)
	}
	return project, nil
}

// Detail loads a project and evaluates its plans at now
func (s *ProjectService) Detail(ctx context.Context, id string, now time.Time) (*ProjectDetail, error) {
	project, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ProjectDetail{
		Project:         project,
		OverallProgress: billing.OverallProgress(project.Progress),
		PaymentProgress: billing.Aggregate(project),
		Plans:           make([]billing.PlanSummary, 0, len(project.InstallmentPlans)),
	}
	for i := range project.InstallmentPlans {
		detail.Plans = append(detail.Plans, billing.Summarize(&project.InstallmentPlans[i], now))
	}
	// Summaries carry the plans; avoid serializing them twice
	project.InstallmentPlans = nil
	return detail, nil
}

func (s *ProjectService) PaymentProgress(ctx context.Context, id string) (*billing.Progress, error) {
	project, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	progress := billing.Aggregate(project)
	return &progress, nil
}

func (s *ProjectService) List(ctx context.Context, query *repository.ListQuery) ([]models.Project, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *ProjectService) FindByMember(ctx context.Context, userID string) ([]models.Project, error) {
	return s.repo.FindByMember(ctx, userID)
}
