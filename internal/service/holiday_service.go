package service

import (
	"context"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type holidayRepository interface {
	Load(ctx context.Context) ([]models.HolidayPeriod, error)
	Save(ctx context.Context, holidays []models.HolidayPeriod) error
}

type holidayChangeRemapper interface {
	RemapAfterHolidayChange(ctx context.Context, oldCfg, newCfg []models.HolidayPeriod) error
}

// HolidayService manages the holiday configuration and classifies calendar
// weeks as fully skipped or only partially affected.
type HolidayService struct {
	repo      holidayRepository
	remapper  holidayChangeRemapper
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHolidayService constructs the service. The remapper may be nil when no
// saved content needs relocating (tests).
func NewHolidayService(repo holidayRepository, remapper holidayChangeRemapper, validate *validator.Validate, logger *zap.Logger) *HolidayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HolidayService{repo: repo, remapper: remapper, validator: validate, logger: logger}
}

// AddHolidayRequest describes a new holiday range.
type AddHolidayRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// List returns every configured holiday period.
func (s *HolidayService) List(ctx context.Context) ([]models.HolidayPeriod, error) {
	holidays, err := s.repo.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	return holidays, nil
}

// Add registers a holiday range, classifying its weeks, and triggers content
// remapping against the previous configuration.
func (s *HolidayService) Add(ctx context.Context, req AddHolidayRequest) (*models.HolidayPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "endDate must be on or after startDate")
	}

	holiday := buildHolidayPeriod(req.Name, start, end)
	holiday.ID = uuid.NewString()

	oldCfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	newCfg := append(append([]models.HolidayPeriod{}, oldCfg...), holiday)
	if err := s.repo.Save(ctx, newCfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save holidays")
	}

	if err := s.remap(ctx, oldCfg, newCfg); err != nil {
		return nil, err
	}
	s.logger.Info("holiday added",
		zap.String("id", holiday.ID),
		zap.String("name", holiday.Name),
		zap.Int("full_skip_weeks", len(holiday.WeekMondays)),
	)
	return &holiday, nil
}

// Remove deletes a holiday and triggers content remapping.
func (s *HolidayService) Remove(ctx context.Context, id string) error {
	oldCfg, err := s.repo.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	newCfg := make([]models.HolidayPeriod, 0, len(oldCfg))
	found := false
	for _, h := range oldCfg {
		if h.ID == id {
			found = true
			continue
		}
		newCfg = append(newCfg, h)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
	}
	if err := s.repo.Save(ctx, newCfg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save holidays")
	}
	return s.remap(ctx, oldCfg, newCfg)
}

func (s *HolidayService) remap(ctx context.Context, oldCfg, newCfg []models.HolidayPeriod) error {
	if s.remapper == nil {
		return nil
	}
	if err := s.remapper.RemapAfterHolidayChange(ctx, oldCfg, newCfg); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remap saved content")
	}
	return nil
}

// buildHolidayPeriod enumerates every weekday in [start, end], buckets them
// by the Monday of their week, and classifies weeks with all five weekdays
// covered as full-skip weeks.
func buildHolidayPeriod(name string, start, end time.Time) models.HolidayPeriod {
	buckets := make(map[string]int)
	dates := make([]string, 0)
	for day := start; !day.After(end); day = addDays(day, 1) {
		if isoWeekday(day) > 5 {
			continue
		}
		buckets[formatDate(mondayOf(day))]++
		dates = append(dates, formatDate(day))
	}

	mondays := make([]string, 0, len(buckets))
	for monday, covered := range buckets {
		if covered >= 5 {
			mondays = append(mondays, monday)
		}
	}
	sort.Strings(mondays)
	sort.Strings(dates)

	return models.HolidayPeriod{
		Name:         name,
		StartDate:    formatDate(start),
		EndDate:      formatDate(end),
		WeekMondays:  mondays,
		HolidayDates: dates,
	}
}

// HolidayCalendar answers week-classification and parity queries over the
// union of all configured holiday periods. Overlapping ranges collapse into
// the same set entries, so no week or date is counted twice.
type HolidayCalendar struct {
	skipMondays  map[string]struct{}
	holidayDates map[string]struct{}
}

// NewHolidayCalendar builds a calendar from the stored configuration.
func NewHolidayCalendar(holidays []models.HolidayPeriod) *HolidayCalendar {
	cal := &HolidayCalendar{
		skipMondays:  make(map[string]struct{}),
		holidayDates: make(map[string]struct{}),
	}
	for _, h := range holidays {
		for _, monday := range h.WeekMondays {
			cal.skipMondays[monday] = struct{}{}
		}
		for _, date := range h.HolidayDates {
			cal.holidayDates[date] = struct{}{}
		}
	}
	return cal
}

// IsHolidayWeek reports whether the week starting at mondayISO is fully
// covered by holidays and must be skipped by occurrence projection.
func (c *HolidayCalendar) IsHolidayWeek(mondayISO string) bool {
	_, ok := c.skipMondays[mondayISO]
	return ok
}

// IsHolidayDate reports whether a single weekday falls inside any holiday
// range. Informational only; partial weeks never affect projection or parity.
func (c *HolidayCalendar) IsHolidayDate(dateISO string) bool {
	_, ok := c.holidayDates[dateISO]
	return ok
}

// WeekParity resolves the fortnight week number {1,2} of the week containing
// dateISO, anchored so that the week containing anchorISO is week 1. Fully
// skipped weeks are discounted, so the alternating pattern resumes unbroken
// after a holiday.
func (c *HolidayCalendar) WeekParity(dateISO, anchorISO string) int {
	date, err := parseDate(dateISO)
	if err != nil {
		return 1
	}
	anchor, err := parseDate(anchorISO)
	if err != nil {
		return 1
	}
	from := mondayOf(anchor)
	to := mondayOf(date)
	if to.Before(from) {
		from, to = to, from
	}
	count := 0
	for week := from; week.Before(to); week = addDays(week, 7) {
		if c.IsHolidayWeek(formatDate(week)) {
			continue
		}
		count++
	}
	if count%2 == 0 {
		return 1
	}
	return 2
}
