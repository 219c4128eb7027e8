package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"freelance-match/internal/database/sqldb"
	"freelance-match/internal/domain/design"
	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/matching"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newMock(t *testing.T) (*sqldb.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return sqldb.New(db), mock
}

var applicationColumns = []string{
	"id", "project_id", "cover_letter", "proposed_rate", "estimated_duration", "status",
	"user_id", "name", "title", "bio", "skills", "years_experience", "rating", "total_projects", "success_rate",
}

func TestProjectRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProjectRepository(db)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "category", "complexity", "tech_stack", "budget_min", "budget_max"}).
			AddRow(id.String(), "Shop", "An online shop", "web", "medium", []byte(`["React","Node.js"]`), 1000.0, nil))

	p, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if p.ID != id || p.Title != "Shop" {
		t.Fatalf("unexpected project %+v", p)
	}
	if len(p.TechStack) != 2 || p.TechStack[1] != "Node.js" {
		t.Fatalf("tech stack = %v", p.TechStack)
	}
	if p.BudgetMin == nil || *p.BudgetMin != 1000 {
		t.Fatalf("budget_min = %v", p.BudgetMin)
	}
	if p.BudgetMax != nil {
		t.Fatalf("budget_max should be nil, got %v", *p.BudgetMax)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestProjectRepository_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProjectRepository(db)
	id := uuid.New()

	mock.ExpectQuery("FROM projects").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByID(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepository_ListByProject(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresApplicationRepository(db)
	projectID := uuid.New()
	appID := uuid.New()
	devID := uuid.New()

	mock.ExpectQuery("FROM project_applications a JOIN developer_profiles d").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows(applicationColumns).AddRow(
			appID.String(), projectID.String(), "cover", 2500.0, "2 weeks", "pending",
			devID.String(), "Alice", "Engineer", "bio", "React, Go", 5, 4.5, 10, nil,
		))
	mock.ExpectQuery("JOIN projects p ON p.id = a.project_id").
		WithArgs(devID, "selected", marketplace.PastProjectLimit).
		WillReturnRows(sqlmock.NewRows([]string{"title", "description"}).
			AddRow("Dashboard", "Admin panel").
			AddRow("API", "REST service"))

	apps, err := repo.ListByProject(context.Background(), projectID)
	if err != nil {
		t.Fatalf("ListByProject: %v", err)
	}
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
	a := apps[0]
	if a.ID != appID || a.Status != marketplace.StatusPending || a.Applicant.Name != "Alice" {
		t.Fatalf("unexpected application %+v", a)
	}
	if a.ProposedRate == nil || *a.ProposedRate != 2500 {
		t.Fatalf("proposed rate = %v", a.ProposedRate)
	}
	if a.Applicant.SuccessRate != nil {
		t.Fatalf("success rate should be nil")
	}
	if a.Applicant.PastProjects != "Dashboard: Admin panel. API: REST service" {
		t.Fatalf("past projects = %q", a.Applicant.PastProjects)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestApplicationRepository_FindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresApplicationRepository(db)
	id := uuid.New()

	mock.ExpectQuery("WHERE a.id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(applicationColumns))

	_, err := repo.FindByID(context.Background(), id)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestApplicationRepository_SaveMatchResults(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresApplicationRepository(db)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	res := matching.MatchResult{
		ApplicationID:  uuid.New(),
		OverallScore:   77,
		Components:     matching.ComponentScores{SkillMatch: 66.7, ExperienceFit: 85, PortfolioQuality: 90.5, ProposalQuality: 70, RateFit: 100},
		Method:         matching.MethodComponent,
		MatchingSkills: []string{"react"},
		MissingSkills:  nil,
		Reasoning:      "Good match",
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE project_applications SET").
		WithArgs(res.ApplicationID, 77, 67, 85, 91, 70, 100, `["react"]`, `[]`, "Good match", "component", at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveMatchResults(context.Background(), []matching.MatchResult{res}, at); err != nil {
		t.Fatalf("SaveMatchResults: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestApplicationRepository_SaveMatchResultsRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresApplicationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE project_applications SET").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.SaveMatchResults(context.Background(), []matching.MatchResult{{ApplicationID: uuid.New()}}, time.Now())
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestShortlistRepository_ListSubmitted(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresShortlistRepository(db)
	projectID := uuid.New()
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM figma_shortlists").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "developer_id", "figma_url", "design_images"}).
			AddRow(a.String(), uuid.NewString(), nil, []byte(`["https://img/1.png","https://img/2.png"]`)).
			AddRow(b.String(), uuid.NewString(), "https://www.figma.com/file/abc123/x", nil))

	subs, err := repo.ListSubmitted(context.Background(), projectID)
	if err != nil {
		t.Fatalf("ListSubmitted: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].ID != a || len(subs[0].Images) != 2 || subs[0].FigmaURL != "" {
		t.Fatalf("unexpected first submission %+v", subs[0])
	}
	if subs[1].FigmaURL == "" || len(subs[1].Images) != 0 {
		t.Fatalf("unexpected second submission %+v", subs[1])
	}
}

func TestShortlistRepository_SaveEvaluations(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresShortlistRepository(db)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev := design.DesignEvaluation{SubmissionID: uuid.New(), Rank: 1}
	ev.FinalScore = 72.4

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE figma_shortlists SET").
		WithArgs(ev.SubmissionID, 72.4, 1, at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.SaveEvaluations(context.Background(), []design.DesignEvaluation{ev}, at); err != nil {
		t.Fatalf("SaveEvaluations: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestDecodeStringList(t *testing.T) {
	for _, in := range [][]byte{nil, []byte("null"), []byte("[]")} {
		out, err := decodeStringList(in)
		if err != nil || out == nil || len(out) != 0 {
			t.Fatalf("decodeStringList(%q) = %v, %v", in, out, err)
		}
	}
	if _, err := decodeStringList([]byte("{")); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}
