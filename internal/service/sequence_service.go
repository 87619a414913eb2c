package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type sequenceRepository interface {
	Load(ctx context.Context, classID string) ([]models.LessonContentEntry, error)
	Save(ctx context.Context, classID string, entries []models.LessonContentEntry) error
}

// SequenceService manages the date-agnostic, ordered lesson content sequence
// of each class. Order values stay 0-based and contiguous through every
// mutation.
type SequenceService struct {
	repo      sequenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSequenceService constructs the service.
func NewSequenceService(repo sequenceRepository, validate *validator.Validate, logger *zap.Logger) *SequenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SequenceService{repo: repo, validator: validate, logger: logger}
}

// AddLessonRequest describes a new lesson content entry.
type AddLessonRequest struct {
	Title     string              `json:"title" validate:"required"`
	Notes     string              `json:"notes"`
	Links     []models.LessonLink `json:"links" validate:"omitempty,dive"`
	TopicID   *string             `json:"topicId"`
	TopicName *string             `json:"topicName"`
}

// UpdateLessonRequest patches an entry; nil fields are left untouched and
// order is never changed here.
type UpdateLessonRequest struct {
	Title     *string              `json:"title"`
	Notes     *string              `json:"notes"`
	Links     *[]models.LessonLink `json:"links"`
	TopicID   *string              `json:"topicId"`
	TopicName *string              `json:"topicName"`
}

// List returns a class's sequence in order.
func (s *SequenceService) List(ctx context.Context, classID string) ([]models.LessonContentEntry, error) {
	entries, err := s.repo.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	return entries, nil
}

// ListGrouped projects contiguous same-topic runs into groups. Grouping is a
// read-time view; the flat per-class order is the only stored dimension.
func (s *SequenceService) ListGrouped(ctx context.Context, classID string) ([]models.LessonTopicGroup, error) {
	entries, err := s.List(ctx, classID)
	if err != nil {
		return nil, err
	}
	groups := make([]models.LessonTopicGroup, 0)
	for _, entry := range entries {
		if n := len(groups); n > 0 && sameTopic(groups[n-1].TopicID, entry.TopicID) && entry.TopicID != nil {
			groups[n-1].Entries = append(groups[n-1].Entries, entry)
			continue
		}
		groups = append(groups, models.LessonTopicGroup{
			TopicID:   entry.TopicID,
			TopicName: entry.TopicName,
			Entries:   []models.LessonContentEntry{entry},
		})
	}
	return groups, nil
}

// Append adds an entry at the end of the sequence.
func (s *SequenceService) Append(ctx context.Context, classID string, req AddLessonRequest) (*models.LessonContentEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}
	entries, err := s.repo.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	entry := models.LessonContentEntry{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Notes:     req.Notes,
		Links:     req.Links,
		Order:     len(entries),
		TopicID:   req.TopicID,
		TopicName: req.TopicName,
	}
	entries = append(entries, entry)
	if err := s.repo.Save(ctx, classID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson sequence")
	}
	return &entry, nil
}

// Update merges non-nil patch fields into an entry.
func (s *SequenceService) Update(ctx context.Context, classID, id string, req UpdateLessonRequest) (*models.LessonContentEntry, error) {
	entries, err := s.repo.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	idx := -1
	for i := range entries {
		if entries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}
	entry := &entries[idx]
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.Links != nil {
		entry.Links = *req.Links
	}
	if req.TopicID != nil {
		if *req.TopicID == "" {
			entry.TopicID = nil
			entry.TopicName = nil
		} else {
			entry.TopicID = req.TopicID
		}
	}
	if req.TopicName != nil && entry.TopicID != nil {
		entry.TopicName = req.TopicName
	}
	if err := s.repo.Save(ctx, classID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson sequence")
	}
	result := entries[idx]
	return &result, nil
}

// Delete removes an entry and closes the order gap it leaves.
func (s *SequenceService) Delete(ctx context.Context, classID, id string) error {
	entries, err := s.repo.Load(ctx, classID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	remaining := make([]models.LessonContentEntry, 0, len(entries))
	found := false
	for _, entry := range entries {
		if entry.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, entry)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
	}
	for i := range remaining {
		remaining[i].Order = i
	}
	if err := s.repo.Save(ctx, classID, remaining); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson sequence")
	}
	return nil
}

// Reorder assigns order by position in ids. The list must be a full
// permutation of the class's entry ids; partial lists are rejected rather
// than silently dropping entries.
func (s *SequenceService) Reorder(ctx context.Context, classID string, ids []string) ([]models.LessonContentEntry, error) {
	entries, err := s.repo.Load(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson sequence")
	}
	if len(ids) != len(entries) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reorder list must contain every lesson exactly once")
	}
	positions := make(map[string]int, len(ids))
	for pos, id := range ids {
		if _, dup := positions[id]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "reorder list must contain every lesson exactly once")
		}
		positions[id] = pos
	}
	for i := range entries {
		pos, ok := positions[entries[i].ID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "reorder list must contain every lesson exactly once")
		}
		entries[i].Order = pos
	}
	entries = models.NormalizeLessonOrder(entries)
	if err := s.repo.Save(ctx, classID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save lesson sequence")
	}
	return entries, nil
}

func sameTopic(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
