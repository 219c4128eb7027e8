package matching

import (
	"context"
	"errors"
	"math"
	"testing"

	"freelance-match/internal/domain/marketplace"
)

type fakeEncoder struct {
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func (f *fakeEncoder) Encode(_ context.Context, text string) ([]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return f.fallback, nil
}

func TestPairWeights_RenormalizedToPairCount(t *testing.T) {
	w := pairWeights(DefaultSemanticTuning().PairWeights, 4)
	if len(w) != 4 {
		t.Fatalf("expected 4 weights, got %d", len(w))
	}
	var sum float64
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected weights to sum to 1, got %v", sum)
	}
	if math.Abs(w[0]-0.30/0.90) > 1e-9 {
		t.Fatalf("unexpected first weight %v", w[0])
	}
}

func TestBuildPairs_PastProjectsAddFifthPair(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "React", 3)
	if got := len(buildPairs(p, a)); got != 4 {
		t.Fatalf("expected 4 pairs, got %d", got)
	}
	a.Applicant.PastProjects = "Shop: storefront in React"
	if got := len(buildPairs(p, a)); got != 5 {
		t.Fatalf("expected 5 pairs, got %d", got)
	}
}

func TestBuildPairs_Composition(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "React, Node.js", 3)
	a.CoverLetter = "  I will build your dashboard  "
	a.Applicant.PastProjects = "Shop: storefront in React"

	projectMain := "Analytics dashboard. Realtime dashboard for sales data"
	requirements := "Required skills: React, Node.js, MongoDB. Budget: $1000-$5000. Category: web. Complexity: medium."
	want := []textPair{
		{project: projectMain, applicant: "Full-stack developer. Builds web apps"},
		{project: requirements, applicant: "Skills: React, Node.js. Experience: 3 years. Rating: 4.5/5. Success rate: 90%."},
		{project: projectMain, applicant: "I will build your dashboard"},
		{project: requirements, applicant: "I will build your dashboard"},
		{project: projectMain, applicant: "Shop: storefront in React"},
	}

	got := buildPairs(p, a)
	if len(got) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: expected %+v, got %+v", i+1, want[i], got[i])
		}
	}
}

func TestSemanticScorer_IdenticalVectorsWithSkillPenalty(t *testing.T) {
	p := testProject()
	p.TechStack = []string{"Go"}
	p.BudgetMax = nil
	a := testApplication(p.ID, "Ana", "Python", 0)
	a.Applicant.Rating = nil
	a.ProposedRate = nil

	enc := &fakeEncoder{fallback: []float32{1, 0}}
	got, err := NewSemanticScorer(enc, DefaultSemanticTuning()).Score(context.Background(), p, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// similarity 1 maps to 100, zero overlap costs 10
	if math.Abs(got-90) > 1e-9 {
		t.Fatalf("expected 90, got %v", got)
	}
}

func TestSemanticScorer_OrthogonalVectorsWithBonuses(t *testing.T) {
	p := testProject()
	p.TechStack = nil
	p.BudgetMax = nil
	a := testApplication(p.ID, "Ana", "React", 5)
	a.Applicant.Rating = marketplace.Float64Ptr(4.7)
	a.ProposedRate = marketplace.Float64Ptr(800)

	enc := &fakeEncoder{vectors: map[string][]float32{}, fallback: []float32{0, 1}}
	for _, pair := range buildPairs(p, a) {
		enc.vectors[pair.project] = []float32{1, 0}
	}

	got, err := NewSemanticScorer(enc, DefaultSemanticTuning()).Score(context.Background(), p, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 50 base + 5 years + 5 rating + 5 within default budget
	if math.Abs(got-65) > 1e-9 {
		t.Fatalf("expected 65, got %v", got)
	}
}

func TestSemanticScorer_EncodesRepeatedTextOnce(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "React", 3)

	enc := &fakeEncoder{fallback: []float32{1, 1}}
	if _, err := NewSemanticScorer(enc, SemanticTuning{}).Score(context.Background(), p, a); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// project main, requirements and the proposal are each shared by two pairs
	if enc.calls != 5 {
		t.Fatalf("expected 5 encode calls, got %d", enc.calls)
	}
}

func TestSemanticScorer_EncoderErrorIsUnavailable(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "React", 3)

	enc := &fakeEncoder{err: errors.New("connection refused")}
	_, err := NewSemanticScorer(enc, DefaultSemanticTuning()).Score(context.Background(), p, a)
	if !errors.Is(err, ErrStrategyUnavailable) {
		t.Fatalf("expected ErrStrategyUnavailable, got %v", err)
	}
}

func TestSemanticScorer_DimensionMismatch(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "React", 3)

	enc := &fakeEncoder{vectors: map[string][]float32{}, fallback: []float32{1, 0, 0}}
	for _, pair := range buildPairs(p, a) {
		enc.vectors[pair.project] = []float32{1, 0}
	}
	_, err := NewSemanticScorer(enc, DefaultSemanticTuning()).Score(context.Background(), p, a)
	if !errors.Is(err, ErrStrategyUnavailable) {
		t.Fatalf("expected ErrStrategyUnavailable, got %v", err)
	}
}
