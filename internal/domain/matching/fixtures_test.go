package matching

import (
	"strings"

	"freelance-match/internal/domain/marketplace"

	"github.com/google/uuid"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func testProject() marketplace.Project {
	return marketplace.Project{
		ID:          uuid.New(),
		Title:       "Analytics dashboard",
		Description: "Realtime dashboard for sales data",
		TechStack:   []string{"React", "Node.js", "MongoDB"},
		BudgetMin:   marketplace.Float64Ptr(1000),
		BudgetMax:   marketplace.Float64Ptr(5000),
		Category:    "web",
		Complexity:  "medium",
	}
}

func testApplication(projectID uuid.UUID, name, skills string, years int) marketplace.Application {
	return marketplace.Application{
		ID:        uuid.New(),
		ProjectID: projectID,
		Applicant: marketplace.ApplicantProfile{
			ID:              uuid.New(),
			Name:            name,
			Title:           "Full-stack developer",
			Bio:             "Builds web apps",
			Skills:          skills,
			YearsExperience: years,
			Rating:          marketplace.Float64Ptr(4.5),
			TotalProjects:   10,
			SuccessRate:     marketplace.Float64Ptr(90),
		},
		CoverLetter:  words(60),
		ProposedRate: marketplace.Float64Ptr(2500),
		Status:       marketplace.StatusPending,
	}
}
