package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/teachdesk/planner-api/internal/models"
	"github.com/teachdesk/planner-api/internal/store"
)

const holidaysKey = "settings:holidays"

// HolidayRepository persists the holiday configuration as one record.
type HolidayRepository struct {
	store store.Store
}

// NewHolidayRepository constructs a holiday repository.
func NewHolidayRepository(s store.Store) *HolidayRepository {
	return &HolidayRepository{store: s}
}

// Load returns all configured holiday periods; a missing record is an empty
// configuration, not an error.
func (r *HolidayRepository) Load(ctx context.Context) ([]models.HolidayPeriod, error) {
	data, ok, err := r.store.Get(ctx, holidaysKey)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	if !ok {
		return []models.HolidayPeriod{}, nil
	}
	var holidays []models.HolidayPeriod
	if err := json.Unmarshal(data, &holidays); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}
	return holidays, nil
}

// Save replaces the whole holiday configuration.
func (r *HolidayRepository) Save(ctx context.Context, holidays []models.HolidayPeriod) error {
	data, err := json.Marshal(holidays)
	if err != nil {
		return fmt.Errorf("encode holidays: %w", err)
	}
	if err := r.store.Set(ctx, holidaysKey, data); err != nil {
		return fmt.Errorf("save holidays: %w", err)
	}
	return nil
}
