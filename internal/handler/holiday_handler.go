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

type holidayService interface {
	List(ctx context.Context) ([]models.HolidayPeriod, error)
	Add(ctx context.Context, req service.AddHolidayRequest) (*models.HolidayPeriod, error)
	Remove(ctx context.Context, id string) error
}

// HolidayHandler exposes holiday configuration endpoints.
type HolidayHandler struct {
	service holidayService
}

// NewHolidayHandler builds a new handler.
func NewHolidayHandler(service holidayService) *HolidayHandler {
	return &HolidayHandler{service: service}
}

// List godoc
// @Summary List holiday periods
// @Tags Holidays
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /holidays [get]
func (h *HolidayHandler) List(c *gin.Context) {
	holidays, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}

// Add godoc
// @Summary Add a holiday period
// @Tags Holidays
// @Accept json
// @Produce json
// @Param payload body service.AddHolidayRequest true "Holiday range"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /holidays [post]
func (h *HolidayHandler) Add(c *gin.Context) {
	var req service.AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}
	holiday, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, holiday)
}

// Remove godoc
// @Summary Remove a holiday period
// @Tags Holidays
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /holidays/{id} [delete]
func (h *HolidayHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
