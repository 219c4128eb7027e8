package handler

import (
	"freelance-match/internal/delivery/http/dto"
	"freelance-match/internal/delivery/http/middleware"
	"freelance-match/internal/pkg/response"
	"freelance-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const maxAdHocSubmissions = 50

type DesignHandler struct {
	uc usecase.DesignReviewUsecase
}

func NewDesignHandler(uc usecase.DesignReviewUsecase) *DesignHandler {
	return &DesignHandler{uc: uc}
}

func (h *DesignHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/projects/:project_id/designs/evaluate", h.EvaluateShortlist)
	r.Post("/designs/evaluate", h.EvaluateDesigns)
}

func (h *DesignHandler) EvaluateShortlist(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid project_id", nil, err)
	}

	evals, err := h.uc.EvaluateShortlist(c.Context(), projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessWithMeta(c, fiber.StatusOK, response.MessageOK,
		dto.NewDesignEvaluationResponses(evals),
		fiber.Map{"project_id": projectID, "evaluated_count": len(evals)},
	)
}

func (h *DesignHandler) EvaluateDesigns(c fiber.Ctx) error {
	var req dto.EvaluateDesignsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request body", nil, err)
	}
	if len(req.Submissions) > maxAdHocSubmissions {
		return middleware.NewAppError(fiber.StatusBadRequest, "Too many submissions", nil, nil)
	}

	evals, err := h.uc.EvaluateDesigns(c.Context(), req.Description, req.ToSubmissions())
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.SuccessWithMeta(c, fiber.StatusOK, response.MessageOK,
		dto.NewDesignEvaluationResponses(evals),
		fiber.Map{"evaluated_count": len(evals)},
	)
}
