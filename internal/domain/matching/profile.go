package matching

type ComponentWeights struct {
	SkillMatch       float64 `yaml:"skill_match" json:"skill_match"`
	ExperienceFit    float64 `yaml:"experience_fit" json:"experience_fit"`
	PortfolioQuality float64 `yaml:"portfolio_quality" json:"portfolio_quality"`
	ProposalQuality  float64 `yaml:"proposal_quality" json:"proposal_quality"`
	RateFit          float64 `yaml:"rate_fit" json:"rate_fit"`
}

func DefaultComponentWeights() ComponentWeights {
	return ComponentWeights{
		SkillMatch:       0.35,
		ExperienceFit:    0.25,
		PortfolioQuality: 0.20,
		ProposalQuality:  0.15,
		RateFit:          0.05,
	}
}

// SemanticTuning holds the pair weights and the bounded bonus/penalty constants applied on top of
// the embedding similarity.
type SemanticTuning struct {
	PairWeights []float64 `yaml:"pair_weights" json:"pair_weights"`

	SkillOverlapSpan float64 `yaml:"skill_overlap_span" json:"skill_overlap_span"`

	SeniorYears int     `yaml:"senior_years" json:"senior_years"`
	SeniorBonus float64 `yaml:"senior_bonus" json:"senior_bonus"`
	MidYears    int     `yaml:"mid_years" json:"mid_years"`
	MidBonus    float64 `yaml:"mid_bonus" json:"mid_bonus"`

	TopRating        float64 `yaml:"top_rating" json:"top_rating"`
	TopRatingBonus   float64 `yaml:"top_rating_bonus" json:"top_rating_bonus"`
	HighRating       float64 `yaml:"high_rating" json:"high_rating"`
	HighRatingBonus  float64 `yaml:"high_rating_bonus" json:"high_rating_bonus"`

	RateWithinBudgetBonus float64 `yaml:"rate_within_budget_bonus" json:"rate_within_budget_bonus"`
	RateOverBudgetFactor  float64 `yaml:"rate_over_budget_factor" json:"rate_over_budget_factor"`
	RateOverBudgetPenalty float64 `yaml:"rate_over_budget_penalty" json:"rate_over_budget_penalty"`
	DefaultBudgetMax      float64 `yaml:"default_budget_max" json:"default_budget_max"`
}

func DefaultSemanticTuning() SemanticTuning {
	return SemanticTuning{
		PairWeights:           []float64{0.30, 0.25, 0.20, 0.15, 0.10},
		SkillOverlapSpan:      20,
		SeniorYears:           5,
		SeniorBonus:           5,
		MidYears:              2,
		MidBonus:              2,
		TopRating:             4.5,
		TopRatingBonus:        5,
		HighRating:            4.0,
		HighRatingBonus:       3,
		RateWithinBudgetBonus: 5,
		RateOverBudgetFactor:  1.5,
		RateOverBudgetPenalty: 10,
		DefaultBudgetMax:      1000,
	}
}

// WithDefaults fills zero-valued fields from DefaultSemanticTuning so partial profiles stay usable.
func (t SemanticTuning) WithDefaults() SemanticTuning {
	d := DefaultSemanticTuning()
	if len(t.PairWeights) == 0 {
		t.PairWeights = d.PairWeights
	}
	if t.SkillOverlapSpan == 0 {
		t.SkillOverlapSpan = d.SkillOverlapSpan
	}
	if t.SeniorYears == 0 {
		t.SeniorYears, t.SeniorBonus = d.SeniorYears, d.SeniorBonus
	}
	if t.MidYears == 0 {
		t.MidYears, t.MidBonus = d.MidYears, d.MidBonus
	}
	if t.TopRating == 0 {
		t.TopRating, t.TopRatingBonus = d.TopRating, d.TopRatingBonus
	}
	if t.HighRating == 0 {
		t.HighRating, t.HighRatingBonus = d.HighRating, d.HighRatingBonus
	}
	if t.RateOverBudgetFactor == 0 {
		t.RateOverBudgetFactor = d.RateOverBudgetFactor
	}
	if t.RateWithinBudgetBonus == 0 && t.RateOverBudgetPenalty == 0 {
		t.RateWithinBudgetBonus, t.RateOverBudgetPenalty = d.RateWithinBudgetBonus, d.RateOverBudgetPenalty
	}
	if t.DefaultBudgetMax <= 0 {
		t.DefaultBudgetMax = d.DefaultBudgetMax
	}
	return t
}

func (w ComponentWeights) isZero() bool {
	return w.SkillMatch == 0 && w.ExperienceFit == 0 && w.PortfolioQuality == 0 && w.ProposalQuality == 0 && w.RateFit == 0
}
