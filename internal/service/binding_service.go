package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type bindingRepository interface {
	Load(ctx context.Context, classID string) (models.ScheduleBinding, error)
	Save(ctx context.Context, classID string, binding models.ScheduleBinding) error
}

type sequenceReader interface {
	Load(ctx context.Context, classID string) ([]models.LessonContentEntry, error)
}

type occurrenceGenerator interface {
	Generate(ctx context.Context, classID string, horizonWeeks int) ([]models.Occurrence, error)
}

// BindingService maps sequence positions onto occurrence numbers through the
// single per-class offset. There is no per-lesson pinning: every operation
// shifts the whole sequence at once.
type BindingService struct {
	bindings    bindingRepository
	sequences   sequenceReader
	occurrences occurrenceGenerator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewBindingService constructs the service.
func NewBindingService(bindings bindingRepository, sequences sequenceReader, occurrences occurrenceGenerator, validate *validator.Validate, logger *zap.Logger) *BindingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BindingService{
		bindings:    bindings,
		sequences:   sequences,
		occurrences: occurrences,
		validator:   validate,
		logger:      logger,
	}
}

// SyncToDateRequest re-anchors a class's binding so the lesson at sequence
// position LessonOrder lands on or after TargetDate.
type SyncToDateRequest struct {
	LessonOrder int    `json:"lessonOrder" validate:"min=0"`
	TargetDate  string `json:"targetDate" validate:"required"`
}

// Get returns a class's binding; classes start at offset zero.
func (s *BindingService) Get(ctx context.Context, classID string) (models.ScheduleBinding, error) {
	binding, err := s.bindings.Load(ctx, classID)
	if err != nil {
		return models.ScheduleBinding{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule binding")
	}
	return binding, nil
}

// ContentForOccurrence resolves the content bound to an occurrence number.
// Out-of-range lookups return nil: "not yet scheduled" is a normal state.
func (s *BindingService) ContentForOccurrence(ctx context.Context, classID string, occurrenceNum int) (*models.LessonContentEntry, error) {
	binding, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	entries, err := s.sequences.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	idx := binding.StartIndex + occurrenceNum
	if occurrenceNum < 0 || idx < 0 || idx >= len(entries) {
		return nil, nil
	}
	entry := entries[idx]
	return &entry, nil
}

// PushBack delays every scheduled lesson by one occurrence, leaving the next
// occurrence unscheduled. Used when an unplanned event consumes a slot.
func (s *BindingService) PushBack(ctx context.Context, classID string) (models.ScheduleBinding, error) {
	binding, err := s.Get(ctx, classID)
	if err != nil {
		return models.ScheduleBinding{}, err
	}
	binding.StartIndex++
	if err := s.bindings.Save(ctx, classID, binding); err != nil {
		return models.ScheduleBinding{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule binding")
	}
	return binding, nil
}

// ResetAlignment restores the zero offset.
func (s *BindingService) ResetAlignment(ctx context.Context, classID string) (models.ScheduleBinding, error) {
	binding := models.ScheduleBinding{StartIndex: 0}
	if err := s.bindings.Save(ctx, classID, binding); err != nil {
		return models.ScheduleBinding{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule binding")
	}
	return binding, nil
}

// SyncToDate re-anchors the whole binding so the lesson at the requested
// sequence position lands on the earliest occurrence on or after the target
// date. Without such an occurrence inside the horizon the call is a no-op.
func (s *BindingService) SyncToDate(ctx context.Context, classID string, req SyncToDateRequest) (models.ScheduleBinding, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ScheduleBinding{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sync payload")
	}
	if _, err := parseDate(req.TargetDate); err != nil {
		return models.ScheduleBinding{}, appErrors.Clone(appErrors.ErrValidation, "targetDate must be YYYY-MM-DD")
	}
	occurrences, err := s.occurrences.Generate(ctx, classID, 0)
	if err != nil {
		return models.ScheduleBinding{}, err
	}

	// The list is chronological, so the first hit is the earliest occurrence
	// on the target date (earliest start time when the class meets twice).
	var target *models.Occurrence
	for i := range occurrences {
		if occurrences[i].Date >= req.TargetDate {
			target = &occurrences[i]
			break
		}
	}
	binding, err := s.Get(ctx, classID)
	if err != nil {
		return models.ScheduleBinding{}, err
	}
	if target == nil {
		return binding, nil
	}

	startIndex := target.OccurrenceNum - req.LessonOrder
	if startIndex < 0 {
		startIndex = 0
	}
	binding.StartIndex = startIndex
	if err := s.bindings.Save(ctx, classID, binding); err != nil {
		return models.ScheduleBinding{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save schedule binding")
	}
	s.logger.Info("binding synced",
		zap.String("class_id", classID),
		zap.Int("lesson_order", req.LessonOrder),
		zap.String("target_date", req.TargetDate),
		zap.Int("start_index", binding.StartIndex),
	)
	return binding, nil
}

// PlannerView zips the projected occurrences with the content currently
// bound to each of them.
func (s *BindingService) PlannerView(ctx context.Context, classID string, horizonWeeks int) ([]models.PlannedLesson, error) {
	occurrences, err := s.occurrences.Generate(ctx, classID, horizonWeeks)
	if err != nil {
		return nil, err
	}
	binding, err := s.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	entries, err := s.sequences.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}

	planned := make([]models.PlannedLesson, 0, len(occurrences))
	for _, occ := range occurrences {
		lesson := models.PlannedLesson{Occurrence: occ}
		idx := binding.StartIndex + occ.OccurrenceNum
		if idx >= 0 && idx < len(entries) {
			entry := entries[idx]
			lesson.Content = &entry
		}
		planned = append(planned, lesson)
	}
	return planned, nil
}
