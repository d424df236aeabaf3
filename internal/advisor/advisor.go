// Package advisor talks to the language model service that ranks properties
// for an investor and matches investors with each other.
package advisor

import (
	"context"
	"errors"

	"github.com/sjperalta/cobuy-api/internal/models"
)

var (
	// ErrAdvisorUnavailable is returned when the service is not configured or cannot be reached.
	ErrAdvisorUnavailable = errors.New("advisor unavailable")
	// ErrInvalidResponse is returned when the service answers with malformed output.
	ErrInvalidResponse = errors.New("invalid advisor response")
)

// Advisor ranks properties and candidate partners for an investor profile.
type Advisor interface {
	Recommend(ctx context.Context, profile models.UserProfile, catalog []models.Property) ([]Recommendation, error)
	Matchmake(ctx context.Context, profile models.UserProfile, candidates []models.User) (*MatchResult, error)
}

// Recommendation is one ranked property.
type Recommendation struct {
	PropertyID string  `json:"property_id"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

// Match is one suggested co-investor.
type Match struct {
	UserID string  `json:"user_id"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// MatchResult is the ranked list of co-investors with an overall rationale.
type MatchResult struct {
	Matches   []Match `json:"matches"`
	Rationale string  `json:"rationale"`
}
