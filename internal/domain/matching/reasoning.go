package matching

import (
	"fmt"
	"strings"
)

func Reasoning(score int, c ComponentScores, method Method) string {
	parts := make([]string, 0, 5)

	switch {
	case score >= 85:
		parts = append(parts, "Excellent match!")
	case score >= 70:
		parts = append(parts, "Strong match.")
	case score >= 55:
		parts = append(parts, "Good potential match.")
	default:
		parts = append(parts, "Moderate match.")
	}

	switch {
	case c.SkillMatch >= 80:
		parts = append(parts, "Strong skill alignment.")
	case c.SkillMatch >= 60:
		parts = append(parts, "Good skill match.")
	case c.SkillMatch >= 40:
		parts = append(parts, "Partial skill match.")
	default:
		parts = append(parts, "Limited skill overlap.")
	}

	switch {
	case c.ExperienceFit >= 80:
		parts = append(parts, "Highly experienced.")
	case c.ExperienceFit >= 50:
		parts = append(parts, "Solid experience level.")
	default:
		parts = append(parts, "Growing experience.")
	}

	switch {
	case c.PortfolioQuality >= 80:
		parts = append(parts, "Excellent track record.")
	case c.PortfolioQuality >= 60:
		parts = append(parts, "Good portfolio quality.")
	}

	switch {
	case c.RateFit >= 90:
		parts = append(parts, "Budget-friendly rate.")
	case c.RateFit < 50:
		parts = append(parts, "Rate above budget.")
	}

	return fmt.Sprintf("%s (Scored using %s)", strings.Join(parts, " "), method)
}
