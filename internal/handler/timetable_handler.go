package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
	"github.com/teachdesk/planner-api/pkg/response"
)

type importService interface {
	Import(ctx context.Context, doc *models.TimetableDocument) error
	Get(ctx context.Context) (*models.TimetableDocument, error)
}

// TimetableHandler exposes timetable import endpoints.
type TimetableHandler struct {
	service importService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service importService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// Import godoc
// @Summary Import a timetable document
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body models.TimetableDocument true "Timetable export"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/import [post]
func (h *TimetableHandler) Import(c *gin.Context) {
	var doc models.TimetableDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable payload"))
		return
	}
	if err := h.service.Import(c.Request.Context(), &doc); err != nil {
		var verr *models.TimetableValidationError
		if errors.As(err, &verr) {
			appErr := appErrors.FromError(err)
			c.JSON(appErr.Status, response.Envelope{
				Error: appErr,
				Meta:  map[string]interface{}{"fieldErrors": verr.Errors},
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"imported": true}, nil)
}

// Get godoc
// @Summary Get the imported timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	doc, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}
