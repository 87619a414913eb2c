package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/service"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type holidayServiceMock struct {
	holidays  []models.HolidayPeriod
	addErr    error
	removeErr error
}

func (m *holidayServiceMock) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	return m.holidays, nil
}

func (m *holidayServiceMock) Add(ctx context.Context, req service.AddHolidayRequest) (*models.HolidayPeriod, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &models.HolidayPeriod{ID: "h1", Name: req.Name, StartDate: req.StartDate, EndDate: req.EndDate}, nil
}

func (m *holidayServiceMock) Remove(ctx context.Context, id string) error {
	return m.removeErr
}

func TestHolidayHandlerAddCreated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(&holidayServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.AddHolidayRequest{Name: "Half term", StartDate: "2026-02-16", EndDate: "2026-02-20"})
	req, _ := http.NewRequest(http.MethodPost, "/holidays", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Add(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestHolidayHandlerAddInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(&holidayServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/holidays", bytes.NewReader([]byte(`invalid`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Add(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHolidayHandlerRemoveNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHolidayHandler(&holidayServiceMock{removeErr: appErrors.Clone(appErrors.ErrNotFound, "holiday not found")})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/holidays/missing", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Remove(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
