package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"freelance-match/internal/database"

	"github.com/google/uuid"
)

// Demo rows use name-derived ids so reseeding hits ON CONFLICT instead of duplicating.
var demoNamespace = uuid.MustParse("5b0c3f7e-2d7a-4c1e-9a57-7f1f0d3c8a21")

func DemoID(name string) uuid.UUID {
	return uuid.NewSHA1(demoNamespace, []byte(name))
}

type demoProject struct {
	Key         string
	Title       string
	Description string
	Category    string
	Complexity  string
	TechStack   []string
	BudgetMin   float64
	BudgetMax   float64
	Status      string
}

type demoDeveloper struct {
	Key             string
	Name            string
	Title           string
	Bio             string
	Skills          string
	YearsExperience int
	Rating          float64
	TotalProjects   int
	SuccessRate     float64
}

type demoApplication struct {
	Project      string
	Developer    string
	CoverLetter  string
	ProposedRate float64
	Duration     string
	Status       string
}

var demoProjects = []demoProject{
	{
		Key:         "storefront",
		Title:       "Headless storefront for a coffee roaster",
		Description: "Build a fast React storefront backed by a Node.js API with Stripe checkout and a simple admin for inventory.",
		Category:    "web",
		Complexity:  "intermediate",
		TechStack:   []string{"React", "Node.js", "PostgreSQL", "Stripe"},
		BudgetMin:   3000,
		BudgetMax:   6000,
		Status:      "open",
	},
	{
		Key:         "fleet-dashboard",
		Title:       "Fleet tracking dashboard",
		Description: "Realtime map dashboard showing vehicle positions streamed over websockets, with historical trip playback.",
		Category:    "web",
		Complexity:  "advanced",
		TechStack:   []string{"Vue.js", "Go", "Redis", "Mapbox"},
		BudgetMin:   8000,
		BudgetMax:   12000,
		Status:      "closed",
	},
}

var demoDevelopers = []demoDeveloper{
	{
		Key:             "ayu",
		Name:            "Ayu Lestari",
		Title:           "Senior full-stack engineer",
		Bio:             "Eight years shipping e-commerce frontends and payment integrations.",
		Skills:          "React, TypeScript, Node.js, PostgreSQL, Stripe",
		YearsExperience: 8,
		Rating:          4.9,
		TotalProjects:   41,
		SuccessRate:     97,
	},
	{
		Key:             "bima",
		Name:            "Bima Pratama",
		Title:           "Backend developer",
		Bio:             "Go and Redis services for logistics startups.",
		Skills:          "Go, Redis, PostgreSQL, Docker",
		YearsExperience: 5,
		Rating:          4.6,
		TotalProjects:   18,
		SuccessRate:     92,
	},
	{
		Key:             "citra",
		Name:            "Citra Dewi",
		Title:           "Frontend developer",
		Bio:             "Vue and React interfaces with a focus on accessibility.",
		Skills:          "Vue.js, React, CSS, Figma",
		YearsExperience: 3,
		Rating:          4.4,
		TotalProjects:   9,
		SuccessRate:     88,
	},
}

var demoApplications = []demoApplication{
	{Project: "fleet-dashboard", Developer: "bima", CoverLetter: "I built the tracking backend for a courier fleet.", ProposedRate: 10000, Duration: "8 weeks", Status: "selected"},
	{Project: "storefront", Developer: "ayu", CoverLetter: "I have launched three Stripe storefronts on React and Node.js in the last year and can share the repos.", ProposedRate: 5200, Duration: "5 weeks", Status: "pending"},
	{Project: "storefront", Developer: "bima", CoverLetter: "Strong on the API side, comfortable with React.", ProposedRate: 4000, Duration: "6 weeks", Status: "pending"},
	{Project: "storefront", Developer: "citra", CoverLetter: "Happy to help!", ProposedRate: 2500, Duration: "4 weeks", Status: "pending"},
}

type ProjectsSeeder struct{}

func (ProjectsSeeder) Name() string { return "projects" }

func (ProjectsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "projects", "id", "title", "description", "category", "complexity", "tech_stack", "budget_min", "budget_max", "status"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, p := range demoProjects {
			stack, err := json.Marshal(p.TechStack)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO projects (id, title, description, category, complexity, tech_stack, budget_min, budget_max, status)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING`,
				DemoID("project:"+p.Key), p.Title, p.Description, p.Category, p.Complexity, string(stack), p.BudgetMin, p.BudgetMax, p.Status,
			); err != nil {
				return fmt.Errorf("insert project %s: %w", p.Key, err)
			}
		}
		return nil
	})
}

type DevelopersSeeder struct{}

func (DevelopersSeeder) Name() string { return "developers" }

func (DevelopersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "developer_profiles", "user_id", "name", "title", "bio", "skills", "years_experience", "rating", "total_projects", "success_rate"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, d := range demoDevelopers {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO developer_profiles (user_id, name, title, bio, skills, years_experience, rating, total_projects, success_rate)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (user_id) DO NOTHING`,
				DemoID("developer:"+d.Key), d.Name, d.Title, d.Bio, d.Skills, d.YearsExperience, d.Rating, d.TotalProjects, d.SuccessRate,
			); err != nil {
				return fmt.Errorf("insert developer %s: %w", d.Key, err)
			}
		}
		return nil
	})
}

type ApplicationsSeeder struct{}

func (ApplicationsSeeder) Name() string { return "applications" }

func (ApplicationsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "project_applications", "id", "project_id", "developer_id", "cover_letter", "proposed_rate", "estimated_duration", "status"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, a := range demoApplications {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO project_applications (id, project_id, developer_id, cover_letter, proposed_rate, estimated_duration, status)
				 VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (project_id, developer_id) DO NOTHING`,
				DemoID("application:"+a.Project+":"+a.Developer), DemoID("project:"+a.Project), DemoID("developer:"+a.Developer),
				a.CoverLetter, a.ProposedRate, a.Duration, a.Status,
			); err != nil {
				return fmt.Errorf("insert application %s/%s: %w", a.Project, a.Developer, err)
			}
		}
		return nil
	})
}
