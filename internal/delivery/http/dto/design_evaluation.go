package dto

import (
	"freelance-match/internal/domain/design"

	"github.com/google/uuid"
)

type DesignSubmissionRequest struct {
	ID          uuid.UUID `json:"id"`
	ApplicantID uuid.UUID `json:"applicant_id"`
	Images      []string  `json:"design_images"`
	FigmaURL    string    `json:"figma_url"`
}

type EvaluateDesignsRequest struct {
	Description string                    `json:"description"`
	Submissions []DesignSubmissionRequest `json:"submissions"`
}

func (r EvaluateDesignsRequest) ToSubmissions() []design.Submission {
	out := make([]design.Submission, 0, len(r.Submissions))
	for _, s := range r.Submissions {
		out = append(out, design.Submission{
			ID:          s.ID,
			ApplicantID: s.ApplicantID,
			Images:      s.Images,
			FigmaURL:    s.FigmaURL,
		})
	}
	return out
}

type ImageErrorResponse struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

type DesignEvaluationResponse struct {
	SubmissionID     uuid.UUID            `json:"submission_id"`
	ApplicantID      uuid.UUID            `json:"applicant_id"`
	Rank             int                  `json:"rank"`
	FinalScore       float64              `json:"final_score"`
	Breakdown        design.Breakdown     `json:"breakdown"`
	ImagesEvaluated  int                  `json:"images_evaluated"`
	ImageErrors      []ImageErrorResponse `json:"image_errors"`
	NoImages         bool                 `json:"no_images"`
	UsedFigmaPreview bool                 `json:"used_figma_preview"`
	Error            string               `json:"error,omitempty"`
	Requirements     design.Requirements  `json:"requirements"`
}

func NewDesignEvaluationResponses(items []design.DesignEvaluation) []DesignEvaluationResponse {
	out := make([]DesignEvaluationResponse, 0, len(items))
	for _, ev := range items {
		errs := make([]ImageErrorResponse, 0, len(ev.ImageErrors))
		for _, ie := range ev.ImageErrors {
			errs = append(errs, ImageErrorResponse{Ref: ie.Ref, Reason: ie.Reason})
		}
		out = append(out, DesignEvaluationResponse{
			SubmissionID:     ev.SubmissionID,
			ApplicantID:      ev.ApplicantID,
			Rank:             ev.Rank,
			FinalScore:       ev.FinalScore,
			Breakdown:        ev.Breakdown,
			ImagesEvaluated:  ev.ImagesEvaluated,
			ImageErrors:      errs,
			NoImages:         ev.NoImages,
			UsedFigmaPreview: ev.UsedFigmaPreview,
			Error:            ev.Error,
			Requirements:     ev.Requirements,
		})
	}
	return out
}
