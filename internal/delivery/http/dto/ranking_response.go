package dto

import (
	"freelance-match/internal/domain/matching"

	"github.com/google/uuid"
)

type ComponentScoresResponse struct {
	SkillMatch       float64 `json:"skill_match"`
	ExperienceFit    float64 `json:"experience_fit"`
	PortfolioQuality float64 `json:"portfolio_quality"`
	ProposalQuality  float64 `json:"proposal_quality"`
	RateFit          float64 `json:"rate_fit"`
}

type MatchResultResponse struct {
	ApplicationID  uuid.UUID               `json:"application_id"`
	ApplicantID    uuid.UUID               `json:"applicant_id"`
	ApplicantName  string                  `json:"applicant_name"`
	Rank           int                     `json:"rank,omitempty"`
	OverallScore   int                     `json:"overall_score"`
	Method         string                  `json:"method"`
	Components     ComponentScoresResponse `json:"components"`
	MatchingSkills []string                `json:"matching_skills"`
	MissingSkills  []string                `json:"missing_skills"`
	ExtraSkills    []string                `json:"extra_skills"`
	Reasoning      string                  `json:"reasoning"`
	Anomalies      []string                `json:"anomalies,omitempty"`
}

type RankingMeta struct {
	ProjectID uuid.UUID `json:"project_id"`
	TopN      int       `json:"top_n"`
	Count     int       `json:"count"`
	Method    string    `json:"method,omitempty"`
}

type RecalculateResponse struct {
	ProjectID  uuid.UUID `json:"project_id"`
	Considered int       `json:"considered"`
	Scored     int       `json:"scored"`
	Skipped    int       `json:"skipped"`
	Method     string    `json:"method"`
}

func NewMatchResultResponse(m matching.MatchResult) MatchResultResponse {
	return MatchResultResponse{
		ApplicationID: m.ApplicationID,
		ApplicantID:   m.ApplicantID,
		ApplicantName: m.ApplicantName,
		Rank:          m.Rank,
		OverallScore:  m.OverallScore,
		Method:        string(m.Method),
		Components: ComponentScoresResponse{
			SkillMatch:       m.Components.SkillMatch,
			ExperienceFit:    m.Components.ExperienceFit,
			PortfolioQuality: m.Components.PortfolioQuality,
			ProposalQuality:  m.Components.ProposalQuality,
			RateFit:          m.Components.RateFit,
		},
		MatchingSkills: nonNil(m.MatchingSkills),
		MissingSkills:  nonNil(m.MissingSkills),
		ExtraSkills:    nonNil(m.ExtraSkills),
		Reasoning:      m.Reasoning,
		Anomalies:      m.Anomalies,
	}
}

func NewMatchResultResponses(items []matching.MatchResult) []MatchResultResponse {
	out := make([]MatchResultResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMatchResultResponse(m))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
