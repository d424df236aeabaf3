package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(http.MethodPut, "/users/user-budi/profile", r)
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func TestBindNestedOrFlat(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected models.UserProfile
		wantErr  bool
	}{
		{
			name:     "wrapped in profile",
			body:     `{"profile": {"location_preference": "Jakarta Selatan", "time_horizon": "5 tahun"}}`,
			expected: models.UserProfile{LocationPreference: "Jakarta Selatan", TimeHorizon: "5 tahun"},
		},
		{
			name:     "flat object",
			body:     `{"price_range": "1-2 M", "financial_capacity": "menengah"}`,
			expected: models.UserProfile{PriceRange: "1-2 M", FinancialCapacity: "menengah"},
		},
		{
			name:     "other keys fall back to flat",
			body:     `{"user": "ignored", "investment_goals": "sewa jangka panjang"}`,
			expected: models.UserProfile{InvestmentGoals: "sewa jangka panjang"},
		},
		{
			name:    "wrong field type",
			body:    `{"location_preference": 12}`,
			wantErr: true,
		},
		{
			name:    "wrapped value is not an object",
			body:    `{"profile": "Bali"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `location=Bali`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got models.UserProfile
			err := BindNestedOrFlat(profileContext(tt.body), "profile", &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestBindNestedOrFlatEmptyBody(t *testing.T) {
	var got models.UserProfile
	assert.ErrorIs(t, BindNestedOrFlat(profileContext("   "), "profile", &got), errEmptyBody)
}

func TestBindNestedOrFlatRestoresBody(t *testing.T) {
	body := `{"profile": {"location_preference": "Bogor"}}`
	c := profileContext(body)

	var got models.UserProfile
	require.NoError(t, BindNestedOrFlat(c, "profile", &got))

	again, err := io.ReadAll(c.Request.Body)
	require.NoError(t, err)
	assert.Equal(t, body, string(again))
}
