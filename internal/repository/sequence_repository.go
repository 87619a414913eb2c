package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/store"
)

// SequenceRepository persists one lesson content sequence record per class.
type SequenceRepository struct {
	store store.Store
}

// NewSequenceRepository constructs a sequence repository.
func NewSequenceRepository(s store.Store) *SequenceRepository {
	return &SequenceRepository{store: s}
}

func sequenceKey(classID string) string {
	return "lessonSequences:" + classID
}

// Load returns a class's sequence with order values normalized. A missing
// record is an empty sequence.
func (r *SequenceRepository) Load(ctx context.Context, classID string) ([]models.LessonContentEntry, error) {
	data, ok, err := r.store.Get(ctx, sequenceKey(classID))
	if err != nil {
		return nil, fmt.Errorf("load sequence for %s: %w", classID, err)
	}
	if !ok {
		return []models.LessonContentEntry{}, nil
	}
	var entries []models.LessonContentEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode sequence for %s: %w", classID, err)
	}
	return models.NormalizeLessonOrder(entries), nil
}

// Exists reports whether a structured sequence record is stored for the class.
func (r *SequenceRepository) Exists(ctx context.Context, classID string) (bool, error) {
	_, ok, err := r.store.Get(ctx, sequenceKey(classID))
	if err != nil {
		return false, fmt.Errorf("probe sequence for %s: %w", classID, err)
	}
	return ok, nil
}

// Save replaces the whole sequence record for a class.
func (r *SequenceRepository) Save(ctx context.Context, classID string, entries []models.LessonContentEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode sequence for %s: %w", classID, err)
	}
	if err := r.store.Set(ctx, sequenceKey(classID), data); err != nil {
		return fmt.Errorf("save sequence for %s: %w", classID, err)
	}
	return nil
}
