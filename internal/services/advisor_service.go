package services

import (
	"context"

	"github.com/sjperalta/cobuy-api/internal/advisor"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/internal/repository"
)

// AdvisorService resolves the catalog and candidate partners for the advisor
type AdvisorService struct {
	advisor      advisor.Advisor
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
}

func NewAdvisorService(adv advisor.Advisor, userRepo repository.UserRepository, propertyRepo repository.PropertyRepository) *AdvisorService {
	return &AdvisorService{advisor: adv, userRepo: userRepo, propertyRepo: propertyRepo}
}

// RecommendedProperty pairs a ranked recommendation with its property
type RecommendedProperty struct {
	advisor.Recommendation
	Property models.PropertyResponse `json:"property"`
}

// Recommend ranks the catalog for the user's profile
func (s *AdvisorService) Recommend(ctx context.Context, userID string) ([]RecommendedProperty, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	catalog, err := s.propertyRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.advisor.Recommend(ctx, user.Profile, catalog)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Property, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}
	out := make([]RecommendedProperty, 0, len(recs))
	for _, r := range recs {
		if p, ok := byID[r.PropertyID]; ok {
			out = append(out, RecommendedProperty{Recommendation: r, Property: p.ToResponse()})
		}
	}
	return out, nil
}

// Matchmake ranks the other users as co-investors for the user
func (s *AdvisorService) Matchmake(ctx context.Context, userID string) (*advisor.MatchResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	all, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]models.User, 0, len(all))
	for _, u := range all {
		if u.ID != user.ID {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return &advisor.MatchResult{Matches: []advisor.Match{}}, nil
	}
	return s.advisor.Matchmake(ctx, user.Profile, candidates)
}
