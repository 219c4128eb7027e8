package marketplace

import (
	"strings"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	StatusPending        ApplicationStatus = "pending"
	StatusShortlisted    ApplicationStatus = "shortlisted"
	StatusFigmaPending   ApplicationStatus = "figma_pending"
	StatusFigmaSubmitted ApplicationStatus = "figma_submitted"
	StatusRejected       ApplicationStatus = "rejected"
	StatusSelected       ApplicationStatus = "selected"
)

// PastProjectLimit caps how many prior selected applications feed an applicant's past-work text.
const PastProjectLimit = 5

type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	TechStack   []string
	BudgetMin   *float64
	BudgetMax   *float64
	Category    string
	Complexity  string
}

type ApplicantProfile struct {
	ID              uuid.UUID
	Name            string
	Title           string
	Bio             string
	Skills          string
	YearsExperience int
	Rating          *float64
	TotalProjects   int
	SuccessRate     *float64
	PastProjects    string
}

type Application struct {
	ID                uuid.UUID
	ProjectID         uuid.UUID
	Applicant         ApplicantProfile
	CoverLetter       string
	ProposedRate      *float64
	EstimatedDuration string
	Status            ApplicationStatus
}

type PastProject struct {
	Title       string
	Description string
}

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusShortlisted, StatusFigmaPending, StatusFigmaSubmitted, StatusRejected, StatusSelected:
		return true
	default:
		return false
	}
}

func (a Application) IsPending() bool {
	return a.Status == StatusPending
}

// JoinPastProjects expects items ordered most recent first.
func JoinPastProjects(items []PastProject) string {
	parts := make([]string, 0, PastProjectLimit)
	for _, it := range items {
		if len(parts) >= PastProjectLimit {
			break
		}
		title := strings.TrimSpace(it.Title)
		desc := strings.TrimSpace(it.Description)
		if title == "" && desc == "" {
			continue
		}
		parts = append(parts, title+": "+desc)
	}
	return strings.Join(parts, ". ")
}

func Float64Ptr(v float64) *float64 {
	return &v
}
