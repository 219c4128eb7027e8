package config

import (
	"fmt"
	"os"

	"freelance-match/internal/domain/design"
	"freelance-match/internal/domain/matching"

	"gopkg.in/yaml.v3"
)

// ScoringProfile holds the tunable scoring constants. Every section is optional; missing values fall
// back to the built-in defaults.
type ScoringProfile struct {
	Components matching.ComponentWeights `yaml:"components"`
	Semantic   matching.SemanticTuning   `yaml:"semantic"`
	Design     design.Weights            `yaml:"design"`
}

func DefaultScoringProfile() ScoringProfile {
	return ScoringProfile{
		Components: matching.DefaultComponentWeights(),
		Semantic:   matching.DefaultSemanticTuning(),
		Design:     design.DefaultWeights(),
	}
}

func LoadScoringProfile(path string) (ScoringProfile, error) {
	if path == "" {
		return DefaultScoringProfile(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ScoringProfile{}, fmt.Errorf("read scoring profile: %w", err)
	}
	return ParseScoringProfile(b)
}

func ParseScoringProfile(b []byte) (ScoringProfile, error) {
	var p ScoringProfile
	if err := yaml.Unmarshal(b, &p); err != nil {
		return ScoringProfile{}, fmt.Errorf("parse scoring profile: %w", err)
	}

	d := DefaultScoringProfile()
	if p.Components == (matching.ComponentWeights{}) {
		p.Components = d.Components
	}
	p.Semantic = p.Semantic.WithDefaults()
	if p.Design == (design.Weights{}) {
		p.Design = d.Design
	}

	if err := validateWeights("components",
		p.Components.SkillMatch, p.Components.ExperienceFit, p.Components.PortfolioQuality,
		p.Components.ProposalQuality, p.Components.RateFit); err != nil {
		return ScoringProfile{}, err
	}
	if err := validateWeights("design",
		p.Design.OverallSimilarity, p.Design.DesignQuality, p.Design.RequirementMatch, p.Design.UIElements); err != nil {
		return ScoringProfile{}, err
	}
	if err := validateWeights("semantic.pair_weights", p.Semantic.PairWeights...); err != nil {
		return ScoringProfile{}, err
	}
	return p, nil
}

func validateWeights(section string, ws ...float64) error {
	var sum float64
	for _, w := range ws {
		if w < 0 {
			return fmt.Errorf("scoring profile %s: negative weight %v", section, w)
		}
		sum += w
	}
	if sum <= 0 {
		return fmt.Errorf("scoring profile %s: weights sum to zero", section)
	}
	return nil
}
