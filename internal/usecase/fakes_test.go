package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"freelance-match/internal/domain/design"
	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/matching"
	"freelance-match/internal/repository"

	"github.com/google/uuid"
)

type fakeProjects struct {
	items map[uuid.UUID]marketplace.Project
	err   error
}

func (f fakeProjects) FindByID(_ context.Context, id uuid.UUID) (marketplace.Project, error) {
	if f.err != nil {
		return marketplace.Project{}, f.err
	}
	p, ok := f.items[id]
	if !ok {
		return marketplace.Project{}, repository.ErrNotFound
	}
	return p, nil
}

type fakeApps struct {
	mu      sync.Mutex
	items   []marketplace.Application
	lists   int
	saved   []matching.MatchResult
	saveErr error
}

func (f *fakeApps) ListByProject(_ context.Context, projectID uuid.UUID) ([]marketplace.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	out := make([]marketplace.Application, 0, len(f.items))
	for _, a := range f.items {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApps) FindByID(_ context.Context, id uuid.UUID) (marketplace.Application, error) {
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return marketplace.Application{}, repository.ErrNotFound
}

func (f *fakeApps) SaveMatchResults(_ context.Context, results []matching.MatchResult, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, results...)
	return nil
}

type memCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	locks    map[string]bool
	patterns []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, locks: map[string]bool{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	delete(c.locks, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = append(c.patterns, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) SetIfNotExists(_ context.Context, key string, _ string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks[key] {
		return false, nil
	}
	c.locks[key] = true
	return true, nil
}

type recNotifier struct {
	mu        sync.Mutex
	rankings  []uuid.UUID
	designs   []uuid.UUID
	lastCount int
}

func (n *recNotifier) RankingUpdated(projectID uuid.UUID, scored int, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.rankings = append(n.rankings, projectID)
	n.lastCount = scored
}

func (n *recNotifier) DesignsEvaluated(projectID uuid.UUID, evaluated int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.designs = append(n.designs, projectID)
	n.lastCount = evaluated
}

type fakeShortlists struct {
	subs  []design.Submission
	saved []design.DesignEvaluation
}

func (f *fakeShortlists) ListSubmitted(context.Context, uuid.UUID) ([]design.Submission, error) {
	return f.subs, nil
}

func (f *fakeShortlists) SaveEvaluations(_ context.Context, evals []design.DesignEvaluation, _ time.Time) error {
	f.saved = append(f.saved, evals...)
	return nil
}

type refScorer map[string]float64

func (s refScorer) Similarity(_ context.Context, img design.Image, _ string) (float64, error) {
	return s[img.Ref], nil
}

type echoFetcher struct{}

func (echoFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	return []byte(ref), nil
}

func testProject() marketplace.Project {
	return marketplace.Project{
		ID:          uuid.New(),
		Title:       "Analytics dashboard",
		Description: "A dashboard with a sidebar and charts",
		TechStack:   []string{"React", "Node.js", "MongoDB"},
		BudgetMin:   marketplace.Float64Ptr(1000),
		BudgetMax:   marketplace.Float64Ptr(5000),
	}
}

func testApplication(projectID uuid.UUID, name, skills string, years int) marketplace.Application {
	return marketplace.Application{
		ID:        uuid.New(),
		ProjectID: projectID,
		Applicant: marketplace.ApplicantProfile{
			ID:              uuid.New(),
			Name:            name,
			Skills:          skills,
			YearsExperience: years,
			Rating:          marketplace.Float64Ptr(4.5),
			TotalProjects:   10,
			SuccessRate:     marketplace.Float64Ptr(90),
		},
		CoverLetter:  strings.TrimSpace(strings.Repeat("word ", 60)),
		ProposedRate: marketplace.Float64Ptr(2500),
		Status:       marketplace.StatusPending,
	}
}
