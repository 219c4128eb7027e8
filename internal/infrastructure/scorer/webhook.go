package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/matching"
	"freelance-match/internal/pkg/logger"

	"github.com/qri-io/jsonschema"
	"go.uber.org/zap"
)

const responseSchema = `{
	"type": "object",
	"required": ["score"],
	"properties": {
		"score": {"type": "number", "minimum": 0, "maximum": 100},
		"model": {"type": "string"}
	}
}`

var ErrInvalidResponse = errors.New("custom scorer returned an invalid response")

// Webhook delegates scoring to an external model service. The service receives the project and the
// application and answers {"score": 0..100}.
type Webhook struct {
	url    string
	client *http.Client
	schema *jsonschema.Schema
	logger *zap.Logger
}

type webhookProject struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"tech_stack"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	Category    string   `json:"category"`
	Complexity  string   `json:"complexity"`
}

type webhookApplicant struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Bio             string   `json:"bio"`
	Skills          string   `json:"skills"`
	YearsExperience int      `json:"years_experience"`
	Rating          *float64 `json:"rating"`
	TotalProjects   int      `json:"total_projects"`
	SuccessRate     *float64 `json:"success_rate"`
	PastProjects    string   `json:"past_projects"`
}

type webhookRequest struct {
	Project      webhookProject   `json:"project"`
	Applicant    webhookApplicant `json:"applicant"`
	CoverLetter  string           `json:"cover_letter"`
	ProposedRate *float64         `json:"proposed_rate"`
}

type webhookResponse struct {
	Score float64 `json:"score"`
	Model string  `json:"model"`
}

func NewWebhook(url string, timeout time.Duration, logger *zap.Logger) (*Webhook, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errors.New("custom scorer url is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(responseSchema), rs); err != nil {
		return nil, fmt.Errorf("compile response schema: %w", err)
	}

	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
		schema: rs,
		logger: logger,
	}, nil
}

func (w *Webhook) Score(ctx context.Context, p marketplace.Project, a marketplace.Application) (float64, error) {
	b, err := json.Marshal(newWebhookRequest(p, a))
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("custom scorer status=%d body=%s", resp.StatusCode, logger.Truncate(string(rb), 300))
	}

	keyErrs, err := w.schema.ValidateBytes(ctx, rb)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if len(keyErrs) > 0 {
		msgs := make([]string, 0, len(keyErrs))
		for _, ke := range keyErrs {
			msgs = append(msgs, ke.Error())
		}
		return 0, fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
	}

	var out webhookResponse
	if err := json.Unmarshal(rb, &out); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	w.logger.Debug("custom score received",
		zap.String("application_id", a.ID.String()),
		zap.String("model", out.Model),
		zap.Float64("score", out.Score),
	)
	return out.Score, nil
}

func newWebhookRequest(p marketplace.Project, a marketplace.Application) webhookRequest {
	ap := a.Applicant
	tech := p.TechStack
	if tech == nil {
		tech = []string{}
	}
	return webhookRequest{
		Project: webhookProject{
			ID:          p.ID.String(),
			Title:       p.Title,
			Description: p.Description,
			TechStack:   tech,
			BudgetMin:   p.BudgetMin,
			BudgetMax:   p.BudgetMax,
			Category:    p.Category,
			Complexity:  p.Complexity,
		},
		Applicant: webhookApplicant{
			ID:              ap.ID.String(),
			Title:           ap.Title,
			Bio:             ap.Bio,
			Skills:          ap.Skills,
			YearsExperience: ap.YearsExperience,
			Rating:          ap.Rating,
			TotalProjects:   ap.TotalProjects,
			SuccessRate:     ap.SuccessRate,
			PastProjects:    ap.PastProjects,
		},
		CoverLetter:  a.CoverLetter,
		ProposedRate: a.ProposedRate,
	}
}

var _ matching.CustomScorer = (*Webhook)(nil)
