package handler

import (
	"errors"
	"strconv"

	"freelance-match/internal/delivery/http/dto"
	"freelance-match/internal/delivery/http/middleware"
	"freelance-match/internal/pkg/response"
	"freelance-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RankingHandler struct {
	uc usecase.RankingUsecase
}

func NewRankingHandler(uc usecase.RankingUsecase) *RankingHandler {
	return &RankingHandler{uc: uc}
}

func (h *RankingHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/projects/:project_id/rankings", h.GetRankings)
	r.Post("/projects/:project_id/rankings/recalculate", h.Recalculate)
	r.Get("/applications/:application_id/match", h.ExplainApplication)
}

func (h *RankingHandler) GetRankings(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid project_id", nil, err)
	}
	topN, err := parseQueryIntStrict(c, "top_n", 0)
	if err != nil || topN < 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "top_n must be a non-negative integer", nil, err)
	}

	results, err := h.uc.RankApplicants(c.Context(), projectID, topN)
	if err != nil {
		return mapUsecaseError(err)
	}

	meta := dto.RankingMeta{ProjectID: projectID, TopN: topN, Count: len(results)}
	if len(results) > 0 {
		meta.Method = string(results[0].Method)
	}
	return response.SuccessWithMeta(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponses(results), meta)
}

func (h *RankingHandler) ExplainApplication(c fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("application_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid application_id", nil, err)
	}

	res, err := h.uc.ExplainApplication(c.Context(), appID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultResponse(res))
}

func (h *RankingHandler) Recalculate(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("project_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid project_id", nil, err)
	}

	sum, err := h.uc.Recalculate(c.Context(), projectID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.RecalculateResponse{
		ProjectID:  sum.ProjectID,
		Considered: sum.Considered,
		Scored:     sum.Scored,
		Skipped:    sum.Skipped,
		Method:     string(sum.Method),
	})
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrProjectNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Project not found", nil, err)
	case errors.Is(err, usecase.ErrApplicationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, err.Error(), nil, err)
	case errors.Is(err, usecase.ErrRankingInProgress):
		return middleware.NewAppError(fiber.StatusConflict, "Ranking recalculation already in progress", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
