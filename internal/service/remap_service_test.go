package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdesk/planner-api/internal/models"
)

func (s *sequenceRepoStub) Exists(ctx context.Context, classID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.data[classID]
	return ok, nil
}

type legacyContentStub struct {
	data    map[string]map[string]models.LegacyLessonContent
	saves   int
	deletes int
}

func (s *legacyContentStub) Load(ctx context.Context, classID string) (map[string]models.LegacyLessonContent, error) {
	return s.data[classID], nil
}

func (s *legacyContentStub) Save(ctx context.Context, classID string, contents map[string]models.LegacyLessonContent) error {
	if s.data == nil {
		s.data = make(map[string]map[string]models.LegacyLessonContent)
	}
	s.data[classID] = contents
	s.saves++
	return nil
}

func (s *legacyContentStub) Delete(ctx context.Context, classID string) error {
	delete(s.data, classID)
	s.deletes++
	return nil
}

func newRemapFixture(doc *models.TimetableDocument, sequences *sequenceRepoStub, bindings *bindingRepoStub, legacy *legacyContentStub, todayISO string) *RemapService {
	svc := NewRemapService(&timetableStub{doc: doc}, sequences, bindings, legacy, nil, 4)
	svc.now = func() time.Time {
		d, _ := time.Parse(dateLayout, todayISO)
		return d
	}
	return svc
}

func halfTerm(t *testing.T) models.HolidayPeriod {
	t.Helper()
	holiday := buildHolidayPeriod("Half term", mustDate(t, "2026-01-26"), mustDate(t, "2026-01-30"))
	holiday.ID = "h1"
	return holiday
}

func TestRemapNoopWhenConfigsEqual(t *testing.T) {
	bindings := &bindingRepoStub{bindings: map[string]models.ScheduleBinding{"12G2": {StartIndex: 3}}}
	svc := newRemapFixture(fortnightDoc(), seededSequenceRepo("12G2", "A", "B"), bindings, &legacyContentStub{}, "2026-01-19")

	cfg := []models.HolidayPeriod{halfTerm(t)}
	require.NoError(t, svc.RemapAfterHolidayChange(context.Background(), cfg, []models.HolidayPeriod{halfTerm(t)}))

	assert.Equal(t, 0, bindings.saves)
	assert.Equal(t, 3, bindings.bindings["12G2"].StartIndex)
}

func TestRemapRebindsBySlotIdentityAfterHolidayRemoval(t *testing.T) {
	sequences := seededSequenceRepo("12G2", "A", "B", "C", "D")
	bindings := &bindingRepoStub{bindings: map[string]models.ScheduleBinding{"12G2": {StartIndex: 2}}}
	svc := newRemapFixture(fortnightDoc(), sequences, bindings, &legacyContentStub{}, "2026-01-26")

	oldCfg := []models.HolidayPeriod{halfTerm(t)}
	require.NoError(t, svc.RemapAfterHolidayChange(context.Background(), oldCfg, nil))

	// Under the old config the first upcoming occurrence was the week-2
	// Monday on 2026-02-02; removing the holiday moves that identity to
	// 2026-02-09 (occurrence 2), so the offset shifts to keep the same
	// lesson on it.
	assert.Equal(t, 1, bindings.saves)
	assert.Equal(t, 0, bindings.bindings["12G2"].StartIndex)
}

func TestRemapRelocatesLegacyContentToNewDate(t *testing.T) {
	legacy := &legacyContentStub{data: map[string]map[string]models.LegacyLessonContent{
		"12G2": {
			"2026-01-26": {Title: "Momentum"},
			"2030-01-01": {Title: "Beyond horizon"},
		},
	}}
	svc := newRemapFixture(fortnightDoc(), &sequenceRepoStub{}, &bindingRepoStub{}, legacy, "2026-01-19")

	newCfg := []models.HolidayPeriod{halfTerm(t)}
	require.NoError(t, svc.RemapAfterHolidayChange(context.Background(), nil, newCfg))

	require.Equal(t, 1, legacy.saves)
	relocated := legacy.data["12G2"]
	require.Len(t, relocated, 2)
	assert.Equal(t, "Momentum", relocated["2026-02-02"].Title)
	assert.Equal(t, "Beyond horizon", relocated["2030-01-01"].Title)
	_, stale := relocated["2026-01-26"]
	assert.False(t, stale)
}

func TestRemapNeverOverwritesExistingLegacyKey(t *testing.T) {
	legacy := &legacyContentStub{data: map[string]map[string]models.LegacyLessonContent{
		"12G2": {
			"2026-01-26": {Title: "Momentum"},
			"2026-02-02": {Title: "Collisions"},
		},
	}}
	svc := newRemapFixture(fortnightDoc(), &sequenceRepoStub{}, &bindingRepoStub{}, legacy, "2026-01-19")

	newCfg := []models.HolidayPeriod{halfTerm(t)}
	require.NoError(t, svc.RemapAfterHolidayChange(context.Background(), nil, newCfg))

	// The target date already holds content, so the displaced record keeps
	// its old key rather than clobbering it.
	assert.Equal(t, 0, legacy.saves)
	assert.Equal(t, "Momentum", legacy.data["12G2"]["2026-01-26"].Title)
	assert.Equal(t, "Collisions", legacy.data["12G2"]["2026-02-02"].Title)
}

func TestMigrateLegacyContentBuildsOrderedSequence(t *testing.T) {
	sequences := &sequenceRepoStub{}
	bindings := &bindingRepoStub{}
	legacy := &legacyContentStub{data: map[string]map[string]models.LegacyLessonContent{
		"12G2": {
			"2026-03-02": {Title: "Waves"},
			"2026-01-19": {Title: "Forces"},
			"2026-02-02": {Title: "Energy"},
		},
	}}
	svc := newRemapFixture(fortnightDoc(), sequences, bindings, legacy, "2026-01-19")

	migrated, err := svc.MigrateLegacyContent(context.Background(), "12G2")
	require.NoError(t, err)
	assert.Equal(t, 3, migrated)

	entries := sequences.data["12G2"]
	require.Len(t, entries, 3)
	assert.Equal(t, "Forces", entries[0].Title)
	assert.Equal(t, "Energy", entries[1].Title)
	assert.Equal(t, "Waves", entries[2].Title)
	for i, entry := range entries {
		assert.Equal(t, i, entry.Order)
		assert.NotEmpty(t, entry.ID)
	}
	assert.Equal(t, 0, bindings.bindings["12G2"].StartIndex)
	assert.Equal(t, 1, legacy.deletes)
	assert.Empty(t, legacy.data["12G2"])
}

func TestMigrateLegacyContentRunsAtMostOnce(t *testing.T) {
	sequences := seededSequenceRepo("12G2", "Forces")
	legacy := &legacyContentStub{data: map[string]map[string]models.LegacyLessonContent{
		"12G2": {"2026-01-19": {Title: "Forces"}},
	}}
	svc := newRemapFixture(fortnightDoc(), sequences, &bindingRepoStub{}, legacy, "2026-01-19")

	migrated, err := svc.MigrateLegacyContent(context.Background(), "12G2")
	require.NoError(t, err)
	assert.Equal(t, 0, migrated)
	assert.Equal(t, 0, legacy.deletes)
	require.Len(t, legacy.data["12G2"], 1)
}
