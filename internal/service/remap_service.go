package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type sequenceStore interface {
	Load(ctx context.Context, classID string) ([]models.LessonContentEntry, error)
	Save(ctx context.Context, classID string, entries []models.LessonContentEntry) error
	Exists(ctx context.Context, classID string) (bool, error)
}

type legacyContentStore interface {
	Load(ctx context.Context, classID string) (map[string]models.LegacyLessonContent, error)
	Save(ctx context.Context, classID string, contents map[string]models.LegacyLessonContent) error
	Delete(ctx context.Context, classID string) error
}

// RemapService relocates saved content when a holiday change shifts the
// occurrence-number/date correspondence, so teacher-entered content moves
// with the lesson it was written for. It never discards content: anything
// without a counterpart in the new projection keeps its old key.
type RemapService struct {
	timetables   timetableReader
	sequences    sequenceStore
	bindings     bindingRepository
	legacy       legacyContentStore
	logger       *zap.Logger
	horizonWeeks int
	now          func() time.Time
}

// NewRemapService constructs the service.
func NewRemapService(timetables timetableReader, sequences sequenceStore, bindings bindingRepository, legacy legacyContentStore, logger *zap.Logger, horizonWeeks int) *RemapService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonWeeks <= 0 {
		horizonWeeks = 26
	}
	return &RemapService{
		timetables:   timetables,
		sequences:    sequences,
		bindings:     bindings,
		legacy:       legacy,
		logger:       logger,
		horizonWeeks: horizonWeeks,
		now:          time.Now,
	}
}

// RemapAfterHolidayChange projects every class under the old and the new
// holiday configuration and re-anchors bindings and legacy date keys by slot
// identity (weekNumber, dayOfWeek, period). Identical configurations are a
// no-op.
func (s *RemapService) RemapAfterHolidayChange(ctx context.Context, oldCfg, newCfg []models.HolidayPeriod) error {
	if holidayConfigsEqual(oldCfg, newCfg) {
		return nil
	}
	doc, ok, err := s.timetables.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if !ok {
		return nil
	}

	oldCal := NewHolidayCalendar(oldCfg)
	newCal := NewHolidayCalendar(newCfg)
	today := s.now()

	for _, class := range doc.Classes {
		oldOccs := buildOccurrences(doc, oldCal, class.ID, today, s.horizonWeeks)
		newOccs := buildOccurrences(doc, newCal, class.ID, today, s.horizonWeeks)
		if err := s.rebindClass(ctx, class.ID, oldOccs, newOccs); err != nil {
			return err
		}
		if err := s.relocateLegacy(ctx, class.ID, oldOccs, newOccs); err != nil {
			return err
		}
	}
	return nil
}

// rebindClass shifts a class's binding offset so the sequence position that
// mapped to the first upcoming occurrence stays on the same slot identity.
// The whole sequence moves by the same delta; that is the price and the
// point of the single-offset design.
func (s *RemapService) rebindClass(ctx context.Context, classID string, oldOccs, newOccs []models.Occurrence) error {
	if len(oldOccs) == 0 || len(newOccs) == 0 {
		return nil
	}
	entries, err := s.sequences.Load(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	if len(entries) == 0 {
		return nil
	}
	binding, err := s.bindings.Load(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule binding")
	}

	anchor := oldOccs[0]
	match, ok := matchByIdentity(anchor, newOccs)
	if !ok {
		return nil
	}
	startIndex := binding.StartIndex - match.OccurrenceNum
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex == binding.StartIndex {
		return nil
	}
	binding.StartIndex = startIndex
	if err := s.bindings.Save(ctx, classID, binding); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule binding")
	}
	s.logger.Info("binding remapped",
		zap.String("class_id", classID),
		zap.Int("start_index", binding.StartIndex),
	)
	return nil
}

// relocateLegacy rewrites date-keyed legacy content so each record follows
// its slot identity onto the new projection. Records without an old
// occurrence (outside the horizon), without a new counterpart, or whose
// target key is taken are retained under their old key.
func (s *RemapService) relocateLegacy(ctx context.Context, classID string, oldOccs, newOccs []models.Occurrence) error {
	contents, err := s.legacy.Load(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load legacy content")
	}
	if len(contents) == 0 {
		return nil
	}

	oldByDate := make(map[string]models.Occurrence, len(oldOccs))
	for _, occ := range oldOccs {
		if _, seen := oldByDate[occ.Date]; !seen {
			oldByDate[occ.Date] = occ
		}
	}

	relocated := make(map[string]models.LegacyLessonContent, len(contents))
	changed := false
	for date, content := range contents {
		oldOcc, known := oldByDate[date]
		if !known {
			relocated[date] = content
			continue
		}
		match, ok := matchByIdentity(oldOcc, newOccs)
		if !ok || match.Date == date {
			relocated[date] = content
			continue
		}
		if _, taken := contents[match.Date]; taken {
			relocated[date] = content
			continue
		}
		if _, taken := relocated[match.Date]; taken {
			relocated[date] = content
			continue
		}
		relocated[match.Date] = content
		changed = true
	}
	if !changed {
		return nil
	}
	if err := s.legacy.Save(ctx, classID, relocated); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save legacy content")
	}
	s.logger.Info("legacy content relocated", zap.String("class_id", classID))
	return nil
}

// MigrateLegacyContent converts a class's date-keyed legacy records into a
// structured sequence ordered chronologically, with a zero binding offset.
// It runs at most once: a class with an existing sequence is left alone.
func (s *RemapService) MigrateLegacyContent(ctx context.Context, classID string) (int, error) {
	exists, err := s.sequences.Exists(ctx, classID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to probe lesson sequence")
	}
	if exists {
		return 0, nil
	}
	contents, err := s.legacy.Load(ctx, classID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load legacy content")
	}
	if len(contents) == 0 {
		return 0, nil
	}

	dates := make([]string, 0, len(contents))
	for date := range contents {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	entries := make([]models.LessonContentEntry, 0, len(dates))
	for i, date := range dates {
		content := contents[date]
		entries = append(entries, models.LessonContentEntry{
			ID:    uuid.NewString(),
			Title: content.Title,
			Notes: content.Notes,
			Links: content.Links,
			Order: i,
		})
	}
	if err := s.sequences.Save(ctx, classID, entries); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson sequence")
	}
	if err := s.bindings.Save(ctx, classID, models.ScheduleBinding{StartIndex: 0}); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule binding")
	}
	if err := s.legacy.Delete(ctx, classID); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear legacy content")
	}
	s.logger.Info("legacy content migrated",
		zap.String("class_id", classID),
		zap.Int("lessons", len(entries)),
	)
	return len(entries), nil
}

// matchByIdentity finds the occurrence in candidates sharing target's slot
// identity, preferring the exact date, then the earliest on or after it.
func matchByIdentity(target models.Occurrence, candidates []models.Occurrence) (models.Occurrence, bool) {
	for _, occ := range candidates {
		if occ.Date == target.Date && sameIdentity(target, occ) {
			return occ, true
		}
	}
	for _, occ := range candidates {
		if occ.Date >= target.Date && sameIdentity(target, occ) {
			return occ, true
		}
	}
	return models.Occurrence{}, false
}

func sameIdentity(a, b models.Occurrence) bool {
	if a.DayOfWeek != b.DayOfWeek || a.Period != b.Period {
		return false
	}
	if a.WeekNumber == nil || b.WeekNumber == nil {
		return a.WeekNumber == b.WeekNumber
	}
	return *a.WeekNumber == *b.WeekNumber
}

func holidayConfigsEqual(a, b []models.HolidayPeriod) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]models.HolidayPeriod, len(a))
	for _, h := range a {
		byID[h.ID] = h
	}
	for _, h := range b {
		other, ok := byID[h.ID]
		if !ok {
			return false
		}
		if h.Name != other.Name || h.StartDate != other.StartDate || h.EndDate != other.EndDate {
			return false
		}
		if !stringSlicesEqual(h.WeekMondays, other.WeekMondays) || !stringSlicesEqual(h.HolidayDates, other.HolidayDates) {
			return false
		}
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
