package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type timetableReader interface {
	Load(ctx context.Context) (*models.TimetableDocument, bool, error)
}

type holidayLoader interface {
	Load(ctx context.Context) ([]models.HolidayPeriod, error)
}

type projectionObserver interface {
	ObserveProjection(duration time.Duration)
}

// OccurrenceService projects the recurring timetable onto concrete future
// dates. Projections are pure: identical inputs (including today's date)
// always produce identical output, and nothing is persisted.
type OccurrenceService struct {
	timetables   timetableReader
	holidays     holidayLoader
	metrics      projectionObserver
	logger       *zap.Logger
	horizonWeeks int
	now          func() time.Time
}

// NewOccurrenceService constructs the service. horizonWeeks bounds every
// projection; metrics may be nil.
func NewOccurrenceService(timetables timetableReader, holidays holidayLoader, metrics projectionObserver, logger *zap.Logger, horizonWeeks int) *OccurrenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonWeeks <= 0 {
		horizonWeeks = 26
	}
	return &OccurrenceService{
		timetables:   timetables,
		holidays:     holidays,
		metrics:      metrics,
		logger:       logger,
		horizonWeeks: horizonWeeks,
		now:          time.Now,
	}
}

// Generate returns the ordered future occurrences for a class within the
// horizon. A class without matching slots (or no imported timetable) yields
// an empty list, not an error.
func (s *OccurrenceService) Generate(ctx context.Context, classID string, horizonWeeks int) ([]models.Occurrence, error) {
	if horizonWeeks <= 0 {
		horizonWeeks = s.horizonWeeks
	}
	doc, ok, err := s.timetables.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if !ok {
		return []models.Occurrence{}, nil
	}
	holidays, err := s.holidays.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}

	started := time.Now()
	occurrences := buildOccurrences(doc, NewHolidayCalendar(holidays), classID, s.now(), horizonWeeks)
	if s.metrics != nil {
		s.metrics.ObserveProjection(time.Since(started))
	}
	return occurrences, nil
}

// FindOccurrenceForDate locates the occurrence on the given date that
// originated from a slot starting at startTime. Merged occurrences still
// match on any of their constituent pre-merge start times.
func (s *OccurrenceService) FindOccurrenceForDate(ctx context.Context, classID, dateISO, startTime string) (int, bool, error) {
	occurrences, err := s.Generate(ctx, classID, 0)
	if err != nil {
		return 0, false, err
	}
	for _, occ := range occurrences {
		if occ.Date != dateISO {
			continue
		}
		for _, slotStart := range occ.SlotStartTimes {
			if slotStart == startTime {
				return occ.OccurrenceNum, true, nil
			}
		}
	}
	return 0, false, nil
}

// buildOccurrences is the pure projection core shared with the remapping
// engine. Weeks fully covered by holidays are skipped without consuming
// occurrence numbers; fortnight parity is resolved against the export date
// with skipped weeks discounted.
func buildOccurrences(doc *models.TimetableDocument, cal *HolidayCalendar, classID string, today time.Time, horizonWeeks int) []models.Occurrence {
	lessons := make([]models.RecurringLesson, 0)
	for _, lesson := range doc.RecurringLessons {
		if lesson.ClassID == classID {
			lessons = append(lessons, lesson)
		}
	}
	occurrences := make([]models.Occurrence, 0)
	if len(lessons) == 0 {
		return occurrences
	}

	todayISO := formatDate(today)
	start := mondayOf(today)
	num := 0

	for w := 0; w < horizonWeeks; w++ {
		weekStart := addDays(start, 7*w)
		weekISO := formatDate(weekStart)
		if cal.IsHolidayWeek(weekISO) {
			continue
		}

		var weekNumber *int
		if doc.TwoWeekTimetable {
			parity := cal.WeekParity(weekISO, doc.Teacher.ExportDate)
			weekNumber = &parity
		}

		for day := 1; day <= 5; day++ {
			dateISO := formatDate(addDays(weekStart, day-1))
			if dateISO < todayISO {
				continue
			}

			daySlots := make([]models.RecurringLesson, 0)
			for _, lesson := range lessons {
				if lesson.DayOfWeek != day {
					continue
				}
				if weekNumber != nil && (lesson.WeekNumber == nil || *lesson.WeekNumber != *weekNumber) {
					continue
				}
				daySlots = append(daySlots, lesson)
			}
			if len(daySlots) == 0 {
				continue
			}
			sort.SliceStable(daySlots, func(i, j int) bool {
				return daySlots[i].StartTime < daySlots[j].StartTime
			})

			for _, merged := range mergeAdjacentSlots(daySlots) {
				occurrences = append(occurrences, models.Occurrence{
					ClassID:        classID,
					OccurrenceNum:  num,
					Date:           dateISO,
					DayOfWeek:      day,
					WeekNumber:     weekNumber,
					StartTime:      merged.startTime,
					EndTime:        merged.endTime,
					Period:         merged.period,
					Room:           merged.room,
					SlotStartTimes: merged.slotStarts,
				})
				num++
			}
		}
	}
	return occurrences
}

type mergedSlot struct {
	startTime   string
	endTime     string
	period      string
	firstPeriod string
	room        string
	slotStarts  []string
}

// mergeAdjacentSlots folds back-to-back half-periods (current end equals next
// start) into one continuous occurrence labelled "first–last".
func mergeAdjacentSlots(slots []models.RecurringLesson) []mergedSlot {
	merged := make([]mergedSlot, 0, len(slots))
	for _, slot := range slots {
		room := ""
		if slot.Room != nil {
			room = *slot.Room
		}
		if n := len(merged); n > 0 && merged[n-1].endTime == slot.StartTime {
			prev := &merged[n-1]
			prev.endTime = slot.EndTime
			prev.period = prev.firstPeriod + "–" + slot.Period
			prev.slotStarts = append(prev.slotStarts, slot.StartTime)
			if prev.room == "" {
				prev.room = room
			}
			continue
		}
		merged = append(merged, mergedSlot{
			startTime:   slot.StartTime,
			endTime:     slot.EndTime,
			period:      slot.Period,
			firstPeriod: slot.Period,
			room:        room,
			slotStarts:  []string{slot.StartTime},
		})
	}
	return merged
}
