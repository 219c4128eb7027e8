package matching

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"freelance-match/internal/domain/marketplace"

	"github.com/google/uuid"
)

func TestRanker_SkillSets(t *testing.T) {
	p := testProject()
	a := testApplication(p.ID, "Ana", "ReactJS, mongo, Express", 4)

	res, err := NewRanker(nil, nil).Explain(context.Background(), p, a)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(res.MatchingSkills, []string{"mongodb", "react"}) {
		t.Fatalf("unexpected matching skills %v", res.MatchingSkills)
	}
	if !reflect.DeepEqual(res.MissingSkills, []string{"node.js"}) {
		t.Fatalf("unexpected missing skills %v", res.MissingSkills)
	}
	if !reflect.DeepEqual(res.ExtraSkills, []string{"express"}) {
		t.Fatalf("unexpected extra skills %v", res.ExtraSkills)
	}
	if res.Components.SkillMatch != 66.7 {
		t.Fatalf("unexpected skill match %v", res.Components.SkillMatch)
	}
	if res.Rank != 0 {
		t.Fatalf("explain should not assign a rank, got %d", res.Rank)
	}
}

func TestRanker_EmptyApplications(t *testing.T) {
	res, err := NewRanker(nil, nil).Rank(context.Background(), testProject(), nil, 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", res)
	}
}

func TestRanker_OrderingTopNAndFiltering(t *testing.T) {
	p := testProject()
	weak := testApplication(p.ID, "Weak", "PHP", 0)
	strong := testApplication(p.ID, "Strong", "React, Node.js, MongoDB", 9)
	mid := testApplication(p.ID, "Mid", "React", 3)
	rejected := testApplication(p.ID, "Rejected", "React, Node.js, MongoDB", 10)
	rejected.Status = marketplace.StatusRejected

	apps := []marketplace.Application{weak, strong, rejected, mid}
	r := NewRanker(nil, nil)

	all, err := r.Rank(context.Background(), p, apps, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 pending results, got %d", len(all))
	}
	names := []string{all[0].ApplicantName, all[1].ApplicantName, all[2].ApplicantName}
	if !reflect.DeepEqual(names, []string{"Strong", "Mid", "Weak"}) {
		t.Fatalf("unexpected order %v", names)
	}
	for i, res := range all {
		if res.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, res.Rank)
		}
		if i > 0 && all[i-1].OverallScore < res.OverallScore {
			t.Fatalf("results not sorted by score")
		}
	}

	top, err := r.Rank(context.Background(), p, apps, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(top) != 2 || top[0].ApplicationID != strong.ID {
		t.Fatalf("unexpected top 2 %+v", top)
	}
}

func TestRanker_Idempotent(t *testing.T) {
	p := testProject()
	apps := []marketplace.Application{
		testApplication(p.ID, "A", "React", 2),
		testApplication(p.ID, "B", "Node, Mongo", 7),
		testApplication(p.ID, "C", "", 0),
	}
	r := NewRanker(nil, nil)

	first, err := r.Rank(context.Background(), p, apps, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := r.Rank(context.Background(), p, apps, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("ranking is not reproducible")
	}
}

func TestRanker_TiesKeepInputOrder(t *testing.T) {
	p := testProject()
	first := testApplication(p.ID, "First", "React", 3)
	second := testApplication(p.ID, "Second", "React", 3)

	res, err := NewRanker(nil, nil).Rank(context.Background(), p, []marketplace.Application{first, second}, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res[0].ApplicationID != first.ID || res[1].ApplicationID != second.ID {
		t.Fatalf("tie order not preserved")
	}
}

func TestRanker_ExplainMatchesRank(t *testing.T) {
	p := testProject()
	apps := []marketplace.Application{
		testApplication(p.ID, "A", "React, Express", 2),
		testApplication(p.ID, "B", "Node, Mongo, React", 7),
	}
	r := NewRanker(NewChain(WithEncoderProvider(&fakeProvider{enc: &fakeEncoder{fallback: []float32{0.3, 0.7}}})), nil)

	ranked, err := r.Rank(context.Background(), p, apps, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, res := range ranked {
		var app marketplace.Application
		for _, a := range apps {
			if a.ID == res.ApplicationID {
				app = a
			}
		}
		ex, err := r.Explain(context.Background(), p, app)
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
		if ex.OverallScore != res.OverallScore || ex.Method != res.Method {
			t.Fatalf("explain (%d %s) disagrees with rank (%d %s)", ex.OverallScore, ex.Method, res.OverallScore, res.Method)
		}
	}
}

func TestRanker_InvalidInput(t *testing.T) {
	p := testProject()
	r := NewRanker(nil, nil)

	bad := p
	bad.BudgetMin = marketplace.Float64Ptr(-1)
	_, err := r.Rank(context.Background(), bad, nil, 0)
	var shapeErr *marketplace.InputShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected InputShapeError, got %v", err)
	}

	good := testApplication(p.ID, "Good", "React", 3)
	broken := testApplication(p.ID, "Broken", "React", 3)
	broken.Applicant.Rating = marketplace.Float64Ptr(7)

	rep, err := r.RankDetailed(context.Background(), p, []marketplace.Application{broken, good}, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rep.Results) != 1 || rep.Results[0].ApplicationID != good.ID {
		t.Fatalf("expected only the valid application ranked, got %+v", rep.Results)
	}
	if len(rep.Skipped) != 1 || rep.Skipped[0].ApplicationID != broken.ID {
		t.Fatalf("expected broken application reported, got %+v", rep.Skipped)
	}
	if rep.Considered != 2 {
		t.Fatalf("expected 2 considered, got %d", rep.Considered)
	}

	other := testApplication(uuid.New(), "Elsewhere", "React", 3)
	if _, err := r.Explain(context.Background(), p, other); !errors.As(err, &shapeErr) {
		t.Fatalf("expected InputShapeError for foreign application, got %v", err)
	}
}

func TestReasoning(t *testing.T) {
	c := ComponentScores{SkillMatch: 66.7, ExperienceFit: 50, PortfolioQuality: 82, ProposalQuality: 48, RateFit: 100}
	got := Reasoning(72, c, MethodComponent)
	want := "Strong match. Good skill match. Solid experience level. Excellent track record. Budget-friendly rate. (Scored using component)"
	if got != want {
		t.Fatalf("unexpected reasoning:\n got %q\nwant %q", got, want)
	}

	got = Reasoning(20, ComponentScores{RateFit: 10}, MethodSemantic)
	want = "Moderate match. Limited skill overlap. Growing experience. Rate above budget. (Scored using semantic)"
	if got != want {
		t.Fatalf("unexpected reasoning:\n got %q\nwant %q", got, want)
	}
}
