package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/cobuy-api/internal/advisor"
	"github.com/sjperalta/cobuy-api/internal/config"
	"github.com/sjperalta/cobuy-api/internal/database"
	"github.com/sjperalta/cobuy-api/internal/fixtures"
	"github.com/sjperalta/cobuy-api/internal/jobs"
	"github.com/sjperalta/cobuy-api/internal/repository"
	"github.com/sjperalta/cobuy-api/internal/services"
	"github.com/sjperalta/cobuy-api/internal/storage"
	"github.com/sjperalta/cobuy-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router *gin.Engine
	auth   *services.AuthService
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger.Setup("test")

	cfg := &config.Config{
		Environment:         "test",
		DBType:              config.DBTypeSQLite,
		DatabaseURL:         ":memory:",
		JWTSecret:           "test-secret",
		JWTExpirationHours:  1,
		PricingBuildingStep: 0.05,
		PricingPlotStep:     0.02,
	}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	catalog, err := fixtures.Load()
	require.NoError(t, err)
	require.NoError(t, fixtures.Seed(context.Background(), db, catalog, true))

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)

	svcs := services.NewServices(repository.NewRepositories(db), worker, store, cfg, advisor.NewHTTPAdvisor(advisor.Config{}))
	r := gin.New()
	NewHandlers(svcs).Register(r.Group("/api/v1"), cfg.JWTSecret)
	return &testAPI{router: r, auth: svcs.Auth}
}

func (a *testAPI) token(t *testing.T, userID string) string {
	t.Helper()
	result, err := a.auth.IssueToken(context.Background(), userID, time.Now())
	require.NoError(t, err)
	return result.Token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestCatalogRoutes(t *testing.T) {
	api := setupAPI(t)

	tests := []struct {
		name   string
		path   string
		status int
		check  func(t *testing.T, body map[string]any)
	}{
		{
			name:   "health",
			path:   "/api/v1/health",
			status: http.StatusOK,
		},
		{
			name:   "properties filtered by type",
			path:   "/api/v1/properties?type=co-owning",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Len(t, body["properties"], 2)
			},
		},
		{
			name:   "unit prices",
			path:   "/api/v1/properties/prop-kemang/unit_prices",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				prices := body["unit_prices"].([]any)
				require.Len(t, prices, 4)
				first := prices[0].(map[string]any)
				assert.Equal(t, "2300000000", first["price"])
				assert.Equal(t, "Rp 2.300.000.000", first["formatted"])
			},
		},
		{
			name:   "unit prices of an area property",
			path:   "/api/v1/properties/prop-ubud/unit_prices",
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "share estimate",
			path:   "/api/v1/properties/prop-ubud/share_estimate?investors=4",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				share := body["share"].(map[string]any)
				assert.Equal(t, "1500000000", share["price"])
				assert.Equal(t, "1250", share["area"])
			},
		},
		{
			name:   "share estimate without investors",
			path:   "/api/v1/properties/prop-ubud/share_estimate",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown property",
			path:   "/api/v1/properties/prop-none",
			status: http.StatusNotFound,
		},
		{
			name:   "project detail",
			path:   "/api/v1/projects/proj-kemang?as_of=2024-03-20",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				project := body["project"].(map[string]any)
				// (100+75+40+0)/4 = 53.75
				assert.Equal(t, float64(54), project["overall_progress"])
				assert.Len(t, project["plans"], 2)
			},
		},
		{
			name:   "project without plans is fully paid",
			path:   "/api/v1/projects/proj-sentul/payment_progress",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				progress := body["payment_progress"].(map[string]any)
				assert.Equal(t, float64(100), progress["percentage"])
			},
		},
		{
			name:   "plan summary at a fixed date",
			path:   "/api/v1/plans/plan-kemang-1?as_of=2024-03-20",
			status: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				plan := body["plan"].(map[string]any)
				assert.Equal(t, float64(300000000), plan["total_paid"])
				overdue := plan["overdue"].([]any)
				require.Len(t, overdue, 1)
				assert.Equal(t, "pay-kemang-1-03", overdue[0].(map[string]any)["id"])
			},
		},
		{
			name:   "invalid as_of",
			path:   "/api/v1/plans/plan-kemang-1?as_of=20-03-2024",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown plan",
			path:   "/api/v1/plans/plan-none",
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(t, http.MethodGet, tt.path, "", nil, "")
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.check != nil {
				tt.check(t, decode(t, w))
			}
		})
	}
}

func TestPlanExports(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/plans/plan-kemang-1/schedule.xlsx?as_of=2024-03-20", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "jadwal_plan-kemang-1_2024-03-20.xlsx")

	w = api.do(t, http.MethodGet, "/api/v1/plans/plan-kemang-1/statement.pdf?as_of=2024-03-20", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestRecordPaymentFlow(t *testing.T) {
	api := setupAPI(t)
	ana := api.token(t, "user-ana")
	budi := api.token(t, "user-budi")
	path := "/api/v1/plans/plan-kemang-1/payments/pay-kemang-1-03/pay?as_of=2024-03-14"

	w := api.do(t, http.MethodPost, path, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// plan-kemang-1 belongs to Ana
	w = api.do(t, http.MethodPost, path, budi, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("payment_method", "transfer"))
	require.NoError(t, mw.Close())

	w = api.do(t, http.MethodPost, path, ana, body, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payment := decode(t, w)["payment"].(map[string]any)
	assert.Equal(t, "paid", payment["status"])
	assert.Equal(t, "transfer", payment["payment_method"])

	w = api.do(t, http.MethodPost, path, ana, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/plans/plan-kemang-1?as_of=2024-03-20", "", nil, "")
	plan := decode(t, w)["plan"].(map[string]any)
	assert.Equal(t, float64(450000000), plan["total_paid"])
	assert.Empty(t, plan["overdue"])
}

func TestAdminRoutes(t *testing.T) {
	api := setupAPI(t)
	ana := api.token(t, "user-ana")
	budi := api.token(t, "user-budi")

	w := api.do(t, http.MethodPost, "/api/v1/plans/plan-kemang-1/payments", budi, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/plans/plan-kemang-1/payments", ana, nil, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decode(t, w)["payment"].(map[string]any)
	assert.Equal(t, "2024-05", payment["period"])
	assert.Equal(t, float64(150000000), payment["amount"])

	w = api.do(t, http.MethodPost, "/api/v1/plans/plan-kemang-2/cancel", ana, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodPost, "/api/v1/plans/plan-kemang-2/cancel", ana, nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/jobs/overdue_reminders?as_of=2024-03-20", budi, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/jobs/overdue_reminders?as_of=2024-03-20", ana, nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decode(t, w)["notifications_sent"])

	// same period, already notified
	w = api.do(t, http.MethodPost, "/api/v1/jobs/overdue_reminders?as_of=2024-03-28", ana, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["notifications_sent"])

	w = api.do(t, http.MethodGet, "/api/v1/notifications?status=unread", ana, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["notifications"], 1)

	w = api.do(t, http.MethodGet, "/api/v1/jobs/status", ana, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)["jobs"].(map[string]any)
	var names []string
	for _, j := range stats["jobs"].([]any) {
		names = append(names, j.(map[string]any)["name"].(string))
	}
	assert.Contains(t, names, "overdue_reminders")
}

func TestUserRoutes(t *testing.T) {
	api := setupAPI(t)
	budi := api.token(t, "user-budi")

	w := api.do(t, http.MethodGet, "/api/v1/users/user-ana/plans", budi, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/users/user-budi/plans?as_of=2024-03-01", budi, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["plans"], 1)

	profile := bytes.NewBufferString(`{"profile": {"location_preference": "Bali", "time_horizon": "10 tahun"}}`)
	w = api.do(t, http.MethodPut, "/api/v1/users/user-budi/profile", budi, profile, "application/json")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "Bali", user["profile"].(map[string]any)["location_preference"])

	w = api.do(t, http.MethodGet, "/api/v1/users/user-budi/projects", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 1)

	w = api.do(t, http.MethodGet, "/api/v1/notifications?status=unread", budi, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/advisor/recommendations", budi, nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
