package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/store"
)

// BindingRepository persists one schedule binding record per class.
type BindingRepository struct {
	store store.Store
}

// NewBindingRepository constructs a binding repository.
func NewBindingRepository(s store.Store) *BindingRepository {
	return &BindingRepository{store: s}
}

func bindingKey(classID string) string {
	return "lessonSchedules:" + classID
}

// Load returns a class's binding; a missing record is the zero offset.
func (r *BindingRepository) Load(ctx context.Context, classID string) (models.ScheduleBinding, error) {
	data, ok, err := r.store.Get(ctx, bindingKey(classID))
	if err != nil {
		return models.ScheduleBinding{}, fmt.Errorf("load binding for %s: %w", classID, err)
	}
	if !ok {
		return models.ScheduleBinding{}, nil
	}
	var binding models.ScheduleBinding
	if err := json.Unmarshal(data, &binding); err != nil {
		return models.ScheduleBinding{}, fmt.Errorf("decode binding for %s: %w", classID, err)
	}
	if binding.StartIndex < 0 {
		binding.StartIndex = 0
	}
	return binding, nil
}

// Save replaces the binding record for a class.
func (r *BindingRepository) Save(ctx context.Context, classID string, binding models.ScheduleBinding) error {
	data, err := json.Marshal(binding)
	if err != nil {
		return fmt.Errorf("encode binding for %s: %w", classID, err)
	}
	if err := r.store.Set(ctx, bindingKey(classID), data); err != nil {
		return fmt.Errorf("save binding for %s: %w", classID, err)
	}
	return nil
}
