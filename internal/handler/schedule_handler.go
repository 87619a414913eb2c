package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/service"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
	"github.com/teachdesk/planner-api/pkg/response"
)

type scheduleService interface {
	Get(ctx context.Context, classID string) (models.ScheduleBinding, error)
	PushBack(ctx context.Context, classID string) (models.ScheduleBinding, error)
	ResetAlignment(ctx context.Context, classID string) (models.ScheduleBinding, error)
	SyncToDate(ctx context.Context, classID string, req service.SyncToDateRequest) (models.ScheduleBinding, error)
}

// ScheduleHandler exposes the sequence-to-occurrence binding of each class.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler builds a new handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Get godoc
// @Summary Get a class's schedule binding
// @Tags Schedule
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	binding, err := h.service.Get(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, binding, nil)
}

// PushBack godoc
// @Summary Push every scheduled lesson back by one occurrence
// @Tags Schedule
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/schedule/push-back [post]
func (h *ScheduleHandler) PushBack(c *gin.Context) {
	binding, err := h.service.PushBack(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, binding, nil)
}

// Reset godoc
// @Summary Reset a class's binding to the zero offset
// @Tags Schedule
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/schedule/reset [post]
func (h *ScheduleHandler) Reset(c *gin.Context) {
	binding, err := h.service.ResetAlignment(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, binding, nil)
}

// Sync godoc
// @Summary Re-anchor the binding so a lesson lands on a target date
// @Tags Schedule
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.SyncToDateRequest true "Lesson position and target date"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{classId}/schedule/sync [post]
func (h *ScheduleHandler) Sync(c *gin.Context) {
	var req service.SyncToDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sync payload"))
		return
	}
	binding, err := h.service.SyncToDate(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, binding, nil)
}
