package marketplace

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// InputShapeError reports malformed project or application data. Retrying the same input cannot
// succeed, so callers surface it instead of falling back.
type InputShapeError struct {
	Entity string
	ID     uuid.UUID
	Field  string
	Reason string
}

func (e *InputShapeError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID == uuid.Nil {
		return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %s: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

func (p Project) Validate() error {
	fail := func(field, reason string) error {
		return &InputShapeError{Entity: "project", ID: p.ID, Field: field, Reason: reason}
	}

	if p.ID == uuid.Nil {
		return fail("id", "is required")
	}
	if p.BudgetMin != nil && (*p.BudgetMin < 0 || math.IsNaN(*p.BudgetMin)) {
		return fail("budget_min", "must be a non-negative number")
	}
	if p.BudgetMax != nil && (*p.BudgetMax < 0 || math.IsNaN(*p.BudgetMax)) {
		return fail("budget_max", "must be a non-negative number")
	}
	if p.BudgetMin != nil && p.BudgetMax != nil && *p.BudgetMax < *p.BudgetMin {
		return fail("budget_max", "must not be lower than budget_min")
	}
	for i, t := range p.TechStack {
		if strings.TrimSpace(t) == "" {
			return fail(fmt.Sprintf("tech_stack[%d]", i), "must not be blank")
		}
	}
	return nil
}

func (a Application) Validate() error {
	fail := func(field, reason string) error {
		return &InputShapeError{Entity: "application", ID: a.ID, Field: field, Reason: reason}
	}

	if a.ID == uuid.Nil {
		return fail("id", "is required")
	}
	if !a.Status.Valid() {
		return fail("status", fmt.Sprintf("%q is not a known status", a.Status))
	}
	if a.ProposedRate != nil && (*a.ProposedRate < 0 || math.IsNaN(*a.ProposedRate)) {
		return fail("proposed_rate", "must be a non-negative number")
	}

	ap := a.Applicant
	if ap.YearsExperience < 0 {
		return fail("years_experience", "must not be negative")
	}
	if ap.TotalProjects < 0 {
		return fail("total_projects", "must not be negative")
	}
	if ap.Rating != nil && (*ap.Rating < 0 || *ap.Rating > 5 || math.IsNaN(*ap.Rating)) {
		return fail("rating", "must be within 0-5")
	}
	if ap.SuccessRate != nil && (*ap.SuccessRate < 0 || *ap.SuccessRate > 100 || math.IsNaN(*ap.SuccessRate)) {
		return fail("success_rate", "must be within 0-100")
	}
	return nil
}
