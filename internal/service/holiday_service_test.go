package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type holidayRepoStub struct {
	holidays []models.HolidayPeriod
	err      error
}

func (s *holidayRepoStub) Load(ctx context.Context) ([]models.HolidayPeriod, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.holidays, nil
}

func (s *holidayRepoStub) Save(ctx context.Context, holidays []models.HolidayPeriod) error {
	if s.err != nil {
		return s.err
	}
	s.holidays = holidays
	return nil
}

type remapRecorderStub struct {
	calls int
}

func (s *remapRecorderStub) RemapAfterHolidayChange(ctx context.Context, oldCfg, newCfg []models.HolidayPeriod) error {
	s.calls++
	return nil
}

func TestHolidayServiceAddFullWeek(t *testing.T) {
	repo := &holidayRepoStub{}
	remapper := &remapRecorderStub{}
	svc := NewHolidayService(repo, remapper, validator.New(), nil)

	holiday, err := svc.Add(context.Background(), AddHolidayRequest{
		Name:      "Half term",
		StartDate: "2026-02-16",
		EndDate:   "2026-02-20",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, holiday.ID)
	assert.Equal(t, []string{"2026-02-16"}, holiday.WeekMondays)
	assert.Len(t, holiday.HolidayDates, 5)
	assert.Equal(t, 1, remapper.calls)
	require.Len(t, repo.holidays, 1)
}

func TestHolidayServiceAddSpanningPartialWeeks(t *testing.T) {
	repo := &holidayRepoStub{}
	svc := NewHolidayService(repo, nil, validator.New(), nil)

	// Friday 13th through Monday 23rd: only the middle week is fully covered.
	holiday, err := svc.Add(context.Background(), AddHolidayRequest{
		Name:      "Break",
		StartDate: "2026-02-13",
		EndDate:   "2026-02-23",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-16"}, holiday.WeekMondays)
	assert.Len(t, holiday.HolidayDates, 7)
}

func TestHolidayServiceAddSingleDayNeverSkipsWeek(t *testing.T) {
	svc := NewHolidayService(&holidayRepoStub{}, nil, validator.New(), nil)

	holiday, err := svc.Add(context.Background(), AddHolidayRequest{
		Name:      "Inset day",
		StartDate: "2026-02-17",
		EndDate:   "2026-02-17",
	})
	require.NoError(t, err)
	assert.Empty(t, holiday.WeekMondays)
	assert.Equal(t, []string{"2026-02-17"}, holiday.HolidayDates)
}

func TestHolidayServiceAddRejectsReversedRange(t *testing.T) {
	svc := NewHolidayService(&holidayRepoStub{}, nil, validator.New(), nil)

	_, err := svc.Add(context.Background(), AddHolidayRequest{
		Name:      "Backwards",
		StartDate: "2026-02-20",
		EndDate:   "2026-02-16",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestHolidayServiceRemoveNotFound(t *testing.T) {
	svc := NewHolidayService(&holidayRepoStub{}, nil, validator.New(), nil)

	err := svc.Remove(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestHolidayServiceRemoveTriggersRemap(t *testing.T) {
	repo := &holidayRepoStub{holidays: []models.HolidayPeriod{{ID: "h1", Name: "Half term"}}}
	remapper := &remapRecorderStub{}
	svc := NewHolidayService(repo, remapper, validator.New(), nil)

	require.NoError(t, svc.Remove(context.Background(), "h1"))
	assert.Empty(t, repo.holidays)
	assert.Equal(t, 1, remapper.calls)
}

func TestHolidayCalendarOverlappingRangesUnion(t *testing.T) {
	a := buildHolidayPeriod("A", mustDate(t, "2026-02-16"), mustDate(t, "2026-02-20"))
	b := buildHolidayPeriod("B", mustDate(t, "2026-02-18"), mustDate(t, "2026-02-24"))
	cal := NewHolidayCalendar([]models.HolidayPeriod{a, b})

	assert.True(t, cal.IsHolidayWeek("2026-02-16"))
	assert.False(t, cal.IsHolidayWeek("2026-02-23"))
	assert.True(t, cal.IsHolidayDate("2026-02-18"))

	// The shared week is discounted exactly once.
	assert.Equal(t, 2, cal.WeekParity("2026-02-23", "2026-02-09"))
}

func TestWeekParityAlternates(t *testing.T) {
	cal := NewHolidayCalendar(nil)

	assert.Equal(t, 1, cal.WeekParity("2026-01-21", "2026-01-21"))
	assert.Equal(t, 2, cal.WeekParity("2026-01-26", "2026-01-21"))
	assert.Equal(t, 1, cal.WeekParity("2026-02-02", "2026-01-21"))
	assert.Equal(t, 2, cal.WeekParity("2026-01-12", "2026-01-21"))
}

func mustDate(t *testing.T, iso string) time.Time {
	t.Helper()
	d, err := parseDate(iso)
	require.NoError(t, err)
	return d
}

func TestWeekParityDiscountsSkippedWeeks(t *testing.T) {
	holiday := buildHolidayPeriod("Half term", mustDate(t, "2026-01-26"), mustDate(t, "2026-01-30"))
	cal := NewHolidayCalendar([]models.HolidayPeriod{holiday})

	// The week after the holiday continues the pattern as if the skipped
	// week never existed.
	assert.Equal(t, 1, cal.WeekParity("2026-01-21", "2026-01-21"))
	assert.Equal(t, 2, cal.WeekParity("2026-02-02", "2026-01-21"))
	assert.Equal(t, 1, cal.WeekParity("2026-02-09", "2026-01-21"))
}
