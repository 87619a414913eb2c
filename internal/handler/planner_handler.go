package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/pkg/response"
)

type plannerOccurrenceService interface {
	Generate(ctx context.Context, classID string, horizonWeeks int) ([]models.Occurrence, error)
}

type plannerViewService interface {
	PlannerView(ctx context.Context, classID string, horizonWeeks int) ([]models.PlannedLesson, error)
}

type migrationService interface {
	MigrateLegacyContent(ctx context.Context, classID string) (int, error)
}

// PlannerHandler exposes occurrence projections and the planner view.
type PlannerHandler struct {
	occurrences plannerOccurrenceService
	planner     plannerViewService
	migrations  migrationService
}

// NewPlannerHandler builds a new handler.
func NewPlannerHandler(occurrences plannerOccurrenceService, planner plannerViewService, migrations migrationService) *PlannerHandler {
	return &PlannerHandler{occurrences: occurrences, planner: planner, migrations: migrations}
}

// Occurrences godoc
// @Summary Project a class's upcoming occurrences
// @Tags Planner
// @Produce json
// @Param classId path string true "Class ID"
// @Param horizonWeeks query int false "Projection horizon in weeks"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/occurrences [get]
func (h *PlannerHandler) Occurrences(c *gin.Context) {
	horizon := parseHorizon(c)
	occurrences, err := h.occurrences.Generate(c.Request.Context(), c.Param("classId"), horizon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, occurrences, nil)
}

// Planner godoc
// @Summary Project occurrences together with their bound lesson content
// @Tags Planner
// @Produce json
// @Param classId path string true "Class ID"
// @Param horizonWeeks query int false "Projection horizon in weeks"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/planner [get]
func (h *PlannerHandler) Planner(c *gin.Context) {
	horizon := parseHorizon(c)
	planned, err := h.planner.PlannerView(c.Request.Context(), c.Param("classId"), horizon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, planned, nil)
}

// Migrate godoc
// @Summary Migrate a class's date-keyed legacy content into a sequence
// @Tags Planner
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/migrate [post]
func (h *PlannerHandler) Migrate(c *gin.Context) {
	migrated, err := h.migrations.MigrateLegacyContent(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"migrated": migrated}, nil)
}

func parseHorizon(c *gin.Context) int {
	raw := c.Query("horizonWeeks")
	if raw == "" {
		return 0
	}
	horizon, err := strconv.Atoi(raw)
	if err != nil || horizon < 0 {
		return 0
	}
	return horizon
}
