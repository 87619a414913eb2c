package service

import (
	"context"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type timetableRepository interface {
	Load(ctx context.Context) (*models.TimetableDocument, bool, error)
	Save(ctx context.Context, doc *models.TimetableDocument) error
}

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ImportService validates and atomically replaces the imported timetable
// document. A rejected import leaves the previous document untouched.
type ImportService struct {
	repo   timetableRepository
	logger *zap.Logger
}

// NewImportService constructs the service.
func NewImportService(repo timetableRepository, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, logger: logger}
}

// Get returns the imported document or a not-found error.
func (s *ImportService) Get(ctx context.Context) (*models.TimetableDocument, error) {
	doc, ok, err := s.repo.Load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable imported")
	}
	return doc, nil
}

// Import validates the document and replaces the stored one. All-or-nothing:
// any field error rejects the whole document.
func (s *ImportService) Import(ctx context.Context, doc *models.TimetableDocument) error {
	if fieldErrors := s.Validate(doc); len(fieldErrors) > 0 {
		verr := &models.TimetableValidationError{
			Type:    "timetable_validation",
			Message: "timetable document is invalid",
			Errors:  fieldErrors,
		}
		return appErrors.Wrap(verr, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, verr.Message)
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}
	s.logger.Info("timetable imported",
		zap.String("teacher", doc.Teacher.Name),
		zap.Int("classes", len(doc.Classes)),
		zap.Int("recurring_lessons", len(doc.RecurringLessons)),
		zap.Bool("two_week", doc.TwoWeekTimetable),
	)
	return nil
}

// Validate collects every field-level problem in the document. Field paths
// use the JSON names so clients can highlight the offending input.
func (s *ImportService) Validate(doc *models.TimetableDocument) []models.FieldError {
	errs := make([]models.FieldError, 0)
	add := func(field, message string) {
		errs = append(errs, models.FieldError{Field: field, Message: message})
	}

	if doc.Teacher.Name == "" {
		add("teacher.name", "teacher name is required")
	}
	if doc.TwoWeekTimetable {
		if doc.Teacher.ExportDate == "" {
			add("teacher.exportDate", "exportDate is required for two-week timetables")
		} else if _, err := parseDate(doc.Teacher.ExportDate); err != nil {
			add("teacher.exportDate", "exportDate must be YYYY-MM-DD")
		}
	}

	if len(doc.Classes) == 0 {
		add("classes", "at least one class is required")
	}
	classIDs := make(map[string]struct{}, len(doc.Classes))
	for i, class := range doc.Classes {
		if class.ID == "" {
			add(fmt.Sprintf("classes[%d].id", i), "class id is required")
			continue
		}
		classIDs[class.ID] = struct{}{}
	}

	for i, lesson := range doc.RecurringLessons {
		path := func(field string) string {
			return fmt.Sprintf("recurringLessons[%d].%s", i, field)
		}
		if lesson.DayOfWeek < 1 || lesson.DayOfWeek > 5 {
			add(path("dayOfWeek"), "dayOfWeek must be between 1 and 5")
		}
		if !timePattern.MatchString(lesson.StartTime) {
			add(path("startTime"), "startTime must be HH:MM")
		}
		if !timePattern.MatchString(lesson.EndTime) {
			add(path("endTime"), "endTime must be HH:MM")
		}
		if doc.TwoWeekTimetable {
			if lesson.WeekNumber == nil {
				add(path("weekNumber"), "weekNumber is required on two-week timetables")
			} else if *lesson.WeekNumber != 1 && *lesson.WeekNumber != 2 {
				add(path("weekNumber"), "weekNumber must be 1 or 2")
			}
		} else if lesson.WeekNumber != nil {
			add(path("weekNumber"), "weekNumber is only valid on two-week timetables")
		}
		if lesson.ClassID == "" {
			add(path("classId"), "classId is required")
		} else if _, ok := classIDs[lesson.ClassID]; !ok {
			add(path("classId"), "classId does not reference a declared class")
		}
	}

	for i, duty := range doc.Duties {
		path := func(field string) string {
			return fmt.Sprintf("duties[%d].%s", i, field)
		}
		if duty.Day < 1 || duty.Day > 5 {
			add(path("day"), "day must be between 1 and 5")
		}
		if !timePattern.MatchString(duty.StartTime) {
			add(path("startTime"), "startTime must be HH:MM")
		}
		if !timePattern.MatchString(duty.EndTime) {
			add(path("endTime"), "endTime must be HH:MM")
		}
	}

	return errs
}
