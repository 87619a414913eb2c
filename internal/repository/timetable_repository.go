package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/store"
)

const timetableKey = "timetable"

// TimetableRepository persists the imported timetable document.
type TimetableRepository struct {
	store store.Store
}

// NewTimetableRepository constructs a timetable repository.
func NewTimetableRepository(s store.Store) *TimetableRepository {
	return &TimetableRepository{store: s}
}

// Load returns the stored document, reporting false when none was imported.
func (r *TimetableRepository) Load(ctx context.Context) (*models.TimetableDocument, bool, error) {
	data, ok, err := r.store.Get(ctx, timetableKey)
	if err != nil {
		return nil, false, fmt.Errorf("load timetable: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var doc models.TimetableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode timetable: %w", err)
	}
	return &doc, true, nil
}

// Save replaces the stored document.
func (r *TimetableRepository) Save(ctx context.Context, doc *models.TimetableDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	if err := r.store.Set(ctx, timetableKey, data); err != nil {
		return fmt.Errorf("save timetable: %w", err)
	}
	return nil
}
