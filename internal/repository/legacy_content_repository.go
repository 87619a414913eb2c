package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/store"
)

// LegacyContentRepository persists the date-keyed content records written
// before structured sequences existed. Only the remapping engine touches it.
type LegacyContentRepository struct {
	store store.Store
}

// NewLegacyContentRepository constructs a legacy content repository.
func NewLegacyContentRepository(s store.Store) *LegacyContentRepository {
	return &LegacyContentRepository{store: s}
}

func legacyContentKey(classID string) string {
	return "lessonContents:" + classID
}

// Load returns a class's date-keyed content map; missing record means none.
func (r *LegacyContentRepository) Load(ctx context.Context, classID string) (map[string]models.LegacyLessonContent, error) {
	data, ok, err := r.store.Get(ctx, legacyContentKey(classID))
	if err != nil {
		return nil, fmt.Errorf("load legacy content for %s: %w", classID, err)
	}
	if !ok {
		return map[string]models.LegacyLessonContent{}, nil
	}
	var contents map[string]models.LegacyLessonContent
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("decode legacy content for %s: %w", classID, err)
	}
	return contents, nil
}

// Save replaces the whole date-keyed content map for a class.
func (r *LegacyContentRepository) Save(ctx context.Context, classID string, contents map[string]models.LegacyLessonContent) error {
	data, err := json.Marshal(contents)
	if err != nil {
		return fmt.Errorf("encode legacy content for %s: %w", classID, err)
	}
	if err := r.store.Set(ctx, legacyContentKey(classID), data); err != nil {
		return fmt.Errorf("save legacy content for %s: %w", classID, err)
	}
	return nil
}

// Delete removes the legacy record, typically after migration.
func (r *LegacyContentRepository) Delete(ctx context.Context, classID string) error {
	if err := r.store.Delete(ctx, legacyContentKey(classID)); err != nil {
		return fmt.Errorf("delete legacy content for %s: %w", classID, err)
	}
	return nil
}
