package advisor

import (
	"bytes"
	"cmp"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sjperalta/cobuy-api/internal/format"
	"github.com/sjperalta/cobuy-api/internal/models"
	"github.com/sjperalta/cobuy-api/pkg/logger"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

//go:embed schemas/*.json
var schemaFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"price": format.FormatCurrency}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

var (
	recommendationsSchema = mustCompile("schemas/recommendations.json")
	matchesSchema         = mustCompile("schemas/matches.json")
)

func mustCompile(name string) *jsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("advisor: missing schema %s: %v", name, err))
	}
	return jsonschema.MustCompileString(name, string(data))
}

// Config configures the completion endpoint
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// HTTPAdvisor calls a text completion endpoint and validates its JSON answers
type HTTPAdvisor struct {
	cfg    Config
	client *http.Client
}

// NewHTTPAdvisor creates an advisor. With an empty URL every call fails
// with ErrAdvisorUnavailable.
func NewHTTPAdvisor(cfg Config) *HTTPAdvisor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAdvisor{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type completionResponse struct {
	Output string `json:"output"`
}

// Recommend ranks catalog properties for the profile, best first
func (a *HTTPAdvisor) Recommend(ctx context.Context, profile models.UserProfile, catalog []models.Property) ([]Recommendation, error) {
	prompt, err := render("recommend.tmpl", map[string]any{"Profile": profile, "Properties": catalog})
	if err != nil {
		return nil, err
	}

	var out struct {
		Recommendations []Recommendation `json:"recommendations"`
	}
	if err := a.complete(ctx, prompt, recommendationsSchema, &out); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(catalog))
	for _, p := range catalog {
		known[p.ID] = true
	}
	recs := slices.DeleteFunc(out.Recommendations, func(r Recommendation) bool {
		return !known[r.PropertyID]
	})
	slices.SortStableFunc(recs, func(a, b Recommendation) int { return cmp.Compare(b.Score, a.Score) })
	return recs, nil
}

// Matchmake ranks candidate co-investors for the profile, best first
func (a *HTTPAdvisor) Matchmake(ctx context.Context, profile models.UserProfile, candidates []models.User) (*MatchResult, error) {
	prompt, err := render("matchmake.tmpl", map[string]any{"Profile": profile, "Candidates": candidates})
	if err != nil {
		return nil, err
	}

	var out MatchResult
	if err := a.complete(ctx, prompt, matchesSchema, &out); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(candidates))
	for _, u := range candidates {
		known[u.ID] = true
	}
	out.Matches = slices.DeleteFunc(out.Matches, func(m Match) bool {
		return !known[m.UserID]
	})
	slices.SortStableFunc(out.Matches, func(a, b Match) int { return cmp.Compare(b.Score, a.Score) })
	return &out, nil
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

func (a *HTTPAdvisor) complete(ctx context.Context, prompt string, schema *jsonschema.Schema, dst any) error {
	if a.cfg.URL == "" {
		return fmt.Errorf("%w: ADVISOR_URL not configured", ErrAdvisorUnavailable)
	}

	body, err := json.Marshal(completionRequest{Model: a.cfg.Model, Prompt: prompt})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAdvisorUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAdvisorUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAdvisorUnavailable, err)
	}
	logger.Debug("Advisor call", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrAdvisorUnavailable, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(raw, &completion); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	return decodeValidated([]byte(stripFences(completion.Output)), schema, dst)
}

// decodeValidated checks the document against the schema before decoding it into dst
func decodeValidated(data []byte, schema *jsonschema.Schema, dst any) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: output is not JSON: %v", ErrInvalidResponse, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// stripFences removes a markdown code fence around the model output
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
