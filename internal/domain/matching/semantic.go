package matching

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/skill"
)

type TextEncoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// EncoderProvider hands out a ready encoder, initialising it on first use.
type EncoderProvider interface {
	Encoder(ctx context.Context) (TextEncoder, error)
}

type SemanticScorer struct {
	encoder TextEncoder
	tuning  SemanticTuning
}

func NewSemanticScorer(encoder TextEncoder, tuning SemanticTuning) *SemanticScorer {
	return &SemanticScorer{encoder: encoder, tuning: tuning.WithDefaults()}
}

type textPair struct {
	project   string
	applicant string
}

func (s *SemanticScorer) Score(ctx context.Context, p marketplace.Project, a marketplace.Application) (float64, error) {
	if s == nil || s.encoder == nil {
		return 0, fmt.Errorf("%w: no text encoder", ErrStrategyUnavailable)
	}

	pairs := buildPairs(p, a)
	weights := pairWeights(s.tuning.PairWeights, len(pairs))

	vectors := make(map[string][]float32, len(pairs)*2)
	encode := func(text string) ([]float32, error) {
		if v, ok := vectors[text]; ok {
			return v, nil
		}
		v, err := s.encoder.Encode(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("%w: encode: %v", ErrStrategyUnavailable, err)
		}
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: encoder returned an empty vector", ErrStrategyUnavailable)
		}
		vectors[text] = v
		return v, nil
	}

	var weighted float64
	for i, pair := range pairs {
		if pair.project == "" || pair.applicant == "" {
			continue
		}
		pv, err := encode(pair.project)
		if err != nil {
			return 0, err
		}
		av, err := encode(pair.applicant)
		if err != nil {
			return 0, err
		}
		sim, err := cosine(pv, av)
		if err != nil {
			return 0, err
		}
		weighted += sim * weights[i]
	}

	score := (weighted+1)*50 + s.adjustment(p, a)
	return clamp(score), nil
}

func (s *SemanticScorer) adjustment(p marketplace.Project, a marketplace.Application) float64 {
	t := s.tuning
	ap := a.Applicant
	var adj float64

	required := skill.NormalizeList(p.TechStack)
	if required.Len() > 0 {
		overlap := float64(required.Intersect(skill.Normalize(ap.Skills)).Len()) / float64(required.Len())
		adj += (overlap - 0.5) * t.SkillOverlapSpan
	}

	switch {
	case ap.YearsExperience >= t.SeniorYears:
		adj += t.SeniorBonus
	case ap.YearsExperience >= t.MidYears:
		adj += t.MidBonus
	}

	if ap.Rating != nil {
		switch {
		case *ap.Rating >= t.TopRating:
			adj += t.TopRatingBonus
		case *ap.Rating >= t.HighRating:
			adj += t.HighRatingBonus
		}
	}

	if a.ProposedRate != nil && *a.ProposedRate > 0 {
		budgetMax := t.DefaultBudgetMax
		if p.BudgetMax != nil && *p.BudgetMax > 0 {
			budgetMax = *p.BudgetMax
		}
		switch rate := *a.ProposedRate; {
		case rate <= budgetMax:
			adj += t.RateWithinBudgetBonus
		case rate > budgetMax*t.RateOverBudgetFactor:
			adj -= t.RateOverBudgetPenalty
		}
	}

	return adj
}

func buildPairs(p marketplace.Project, a marketplace.Application) []textPair {
	ap := a.Applicant

	projectMain := joinSentence(p.Title, p.Description)
	requirements := fmt.Sprintf("Required skills: %s. Budget: $%s-$%s. Category: %s. Complexity: %s.",
		strings.Join(p.TechStack, ", "), formatAmount(p.BudgetMin), formatAmount(p.BudgetMax),
		orUnknown(p.Category), orUnknown(p.Complexity))
	applicantMain := joinSentence(ap.Title, ap.Bio)
	applicantSkills := fmt.Sprintf("Skills: %s. Experience: %d years. Rating: %s/5. Success rate: %s%%.",
		strings.TrimSpace(ap.Skills), ap.YearsExperience, formatAmount(ap.Rating), formatAmount(ap.SuccessRate))

	proposal := strings.TrimSpace(a.CoverLetter)

	pairs := []textPair{
		{project: projectMain, applicant: applicantMain},
		{project: requirements, applicant: applicantSkills},
		{project: projectMain, applicant: proposal},
		{project: requirements, applicant: proposal},
	}
	if past := strings.TrimSpace(ap.PastProjects); past != "" {
		pairs = append(pairs, textPair{project: projectMain, applicant: past})
	}
	return pairs
}

func pairWeights(base []float64, n int) []float64 {
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n; i++ {
		if i < len(base) {
			out[i] = base[i]
		}
		sum += out[i]
	}
	if sum <= 0 {
		for i := range out {
			out[i] = 1 / float64(n)
		}
		return out
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

func cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: vector dimensions differ (%d vs %d)", ErrStrategyUnavailable, len(a), len(b))
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, nil
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(-1, math.Min(1, sim)), nil
}

func joinSentence(head, body string) string {
	head = strings.TrimSpace(head)
	body = strings.TrimSpace(body)
	switch {
	case head == "":
		return body
	case body == "":
		return head
	default:
		return head + ". " + body
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "unspecified"
	}
	return s
}
