package matching

import (
	"math"
	"strings"

	"freelance-match/internal/domain/marketplace"
	"freelance-match/internal/domain/skill"
)

type ComponentScores struct {
	SkillMatch       float64 `json:"skill_match"`
	ExperienceFit    float64 `json:"experience_fit"`
	PortfolioQuality float64 `json:"portfolio_quality"`
	ProposalQuality  float64 `json:"proposal_quality"`
	RateFit          float64 `json:"rate_fit"`
}

const (
	neutralScore       = 50.0
	defaultSuccessRate = 50.0
	defaultBudgetMid   = 1000.0
	defaultBudgetMax   = 1000.0
)

type ComponentScorer struct{}

func (ComponentScorer) Score(p marketplace.Project, a marketplace.Application) ComponentScores {
	required := skill.NormalizeList(p.TechStack)
	offered := skill.Normalize(a.Applicant.Skills)

	return ComponentScores{
		SkillMatch:       skillMatch(required, offered),
		ExperienceFit:    experienceFit(a.Applicant.YearsExperience),
		PortfolioQuality: portfolioQuality(a.Applicant),
		ProposalQuality:  proposalQuality(a.CoverLetter),
		RateFit:          rateFit(p, a.ProposedRate),
	}
}

func (c ComponentScores) Weighted(w ComponentWeights) float64 {
	if w.isZero() {
		w = DefaultComponentWeights()
	}
	total := c.SkillMatch*w.SkillMatch +
		c.ExperienceFit*w.ExperienceFit +
		c.PortfolioQuality*w.PortfolioQuality +
		c.ProposalQuality*w.ProposalQuality +
		c.RateFit*w.RateFit
	return clamp(total)
}

func (c ComponentScores) Rounded() ComponentScores {
	return ComponentScores{
		SkillMatch:       round1(c.SkillMatch),
		ExperienceFit:    round1(c.ExperienceFit),
		PortfolioQuality: round1(c.PortfolioQuality),
		ProposalQuality:  round1(c.ProposalQuality),
		RateFit:          round1(c.RateFit),
	}
}

func skillMatch(required, offered skill.Set) float64 {
	if required.Len() == 0 {
		return neutralScore
	}
	matched := required.Intersect(offered).Len()
	return clamp(float64(matched) / float64(required.Len()) * 100)
}

func experienceFit(years int) float64 {
	if years <= 0 {
		return 0
	}
	return math.Min(float64(years)*10, 100)
}

func portfolioQuality(ap marketplace.ApplicantProfile) float64 {
	rating := 0.0
	if ap.Rating != nil {
		rating = *ap.Rating
	}
	successRate := defaultSuccessRate
	if ap.SuccessRate != nil {
		successRate = *ap.SuccessRate
	}
	projects := math.Min(float64(ap.TotalProjects)*5, 100)
	if projects < 0 {
		projects = 0
	}

	score := 0.5*(rating/5*100) + 0.3*successRate + 0.2*projects
	return clamp(score)
}

// proposalQuality maps cover letter length to a score; the first 50 words carry most of the weight.
func proposalQuality(coverLetter string) float64 {
	n := float64(len(strings.Fields(coverLetter)))
	switch {
	case n < 50:
		return clamp(n * 0.8)
	case n < 100:
		return clamp(40 + (n-50)*0.8)
	default:
		return math.Min(80+(n-100)/10, 100)
	}
}

func rateFit(p marketplace.Project, proposed *float64) float64 {
	if proposed == nil || *proposed <= 0 {
		return neutralScore
	}

	mid := budgetMid(p)
	if mid <= 0 {
		return neutralScore
	}
	rate := *proposed
	if rate <= mid {
		return 100
	}
	overage := (rate - mid) / mid
	return clamp(100 - overage*100)
}

func budgetMid(p marketplace.Project) float64 {
	if p.BudgetMin == nil && p.BudgetMax == nil {
		return defaultBudgetMid
	}
	lo, hi := 0.0, defaultBudgetMax
	if p.BudgetMin != nil {
		lo = *p.BudgetMin
	}
	if p.BudgetMax != nil {
		hi = *p.BudgetMax
	}
	return (lo + hi) / 2
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundScore(v float64) int {
	return int(math.Round(clamp(v)))
}
