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

type lessonService interface {
	List(ctx context.Context, classID string) ([]models.LessonContentEntry, error)
	ListGrouped(ctx context.Context, classID string) ([]models.LessonTopicGroup, error)
	Append(ctx context.Context, classID string, req service.AddLessonRequest) (*models.LessonContentEntry, error)
	Update(ctx context.Context, classID, id string, req service.UpdateLessonRequest) (*models.LessonContentEntry, error)
	Delete(ctx context.Context, classID, id string) error
	Reorder(ctx context.Context, classID string, ids []string) ([]models.LessonContentEntry, error)
}

// LessonHandler exposes the per-class lesson content sequence.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler builds a new handler.
func NewLessonHandler(service lessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// reorderRequest carries the full permutation of lesson ids in target order.
type reorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// List godoc
// @Summary List a class's lesson sequence
// @Tags Lessons
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// ListGrouped godoc
// @Summary List a class's lesson sequence grouped by topic runs
// @Tags Lessons
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{classId}/lessons/grouped [get]
func (h *LessonHandler) ListGrouped(c *gin.Context) {
	groups, err := h.service.ListGrouped(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Append godoc
// @Summary Append a lesson to a class's sequence
// @Tags Lessons
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body service.AddLessonRequest true "Lesson content"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{classId}/lessons [post]
func (h *LessonHandler) Append(c *gin.Context) {
	var req service.AddLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson payload"))
		return
	}
	entry, err := h.service.Append(c.Request.Context(), c.Param("classId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a lesson's content
// @Tags Lessons
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param lessonId path string true "Lesson ID"
// @Param payload body service.UpdateLessonRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/{classId}/lessons/{lessonId} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	var req service.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lesson payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("classId"), c.Param("lessonId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a lesson from a class's sequence
// @Tags Lessons
// @Produce json
// @Param classId path string true "Class ID"
// @Param lessonId path string true "Lesson ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /classes/{classId}/lessons/{lessonId} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("classId"), c.Param("lessonId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reorder godoc
// @Summary Reorder a class's lesson sequence
// @Tags Lessons
// @Accept json
// @Produce json
// @Param classId path string true "Class ID"
// @Param payload body reorderRequest true "Every lesson id in target order"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes/{classId}/lessons/reorder [put]
func (h *LessonHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid reorder payload"))
		return
	}
	entries, err := h.service.Reorder(c.Request.Context(), c.Param("classId"), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
