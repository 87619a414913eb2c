package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type sequenceRepoStub struct {
	data  map[string][]models.LessonContentEntry
	saves int
	err   error
}

func (s *sequenceRepoStub) Load(ctx context.Context, classID string) ([]models.LessonContentEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data[classID], nil
}

func (s *sequenceRepoStub) Save(ctx context.Context, classID string, entries []models.LessonContentEntry) error {
	if s.err != nil {
		return s.err
	}
	if s.data == nil {
		s.data = make(map[string][]models.LessonContentEntry)
	}
	s.data[classID] = entries
	s.saves++
	return nil
}

func seededSequenceRepo(classID string, titles ...string) *sequenceRepoStub {
	entries := make([]models.LessonContentEntry, 0, len(titles))
	for i, title := range titles {
		entries = append(entries, models.LessonContentEntry{ID: title, Title: title, Order: i})
	}
	return &sequenceRepoStub{data: map[string][]models.LessonContentEntry{classID: entries}}
}

func TestSequenceServiceAppendAssignsNextOrder(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Energy")
	svc := NewSequenceService(repo, validator.New(), nil)

	entry, err := svc.Append(context.Background(), "9A", AddLessonRequest{Title: "Waves"})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, 2, entry.Order)
	assert.Len(t, repo.data["9A"], 3)
}

func TestSequenceServiceAppendRequiresTitle(t *testing.T) {
	svc := NewSequenceService(&sequenceRepoStub{}, validator.New(), nil)

	_, err := svc.Append(context.Background(), "9A", AddLessonRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSequenceServiceDeleteClosesOrderGap(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Energy", "Waves")
	svc := NewSequenceService(repo, validator.New(), nil)

	require.NoError(t, svc.Delete(context.Background(), "9A", "Energy"))

	entries := repo.data["9A"]
	require.Len(t, entries, 2)
	assert.Equal(t, "Forces", entries[0].Title)
	assert.Equal(t, 0, entries[0].Order)
	assert.Equal(t, "Waves", entries[1].Title)
	assert.Equal(t, 1, entries[1].Order)
}

func TestSequenceServiceDeleteNotFound(t *testing.T) {
	svc := NewSequenceService(seededSequenceRepo("9A", "Forces"), validator.New(), nil)

	err := svc.Delete(context.Background(), "9A", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSequenceServiceUpdatePatchesFields(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Energy")
	svc := NewSequenceService(repo, validator.New(), nil)

	title := "Energy stores"
	notes := "Starter on kinetic energy"
	entry, err := svc.Update(context.Background(), "9A", "Energy", UpdateLessonRequest{Title: &title, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "Energy stores", entry.Title)
	assert.Equal(t, "Starter on kinetic energy", entry.Notes)
	assert.Equal(t, 1, entry.Order)
}

func TestSequenceServiceUpdateClearsTopic(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces")
	repo.data["9A"][0].TopicID = strPtr("t1")
	repo.data["9A"][0].TopicName = strPtr("Mechanics")
	svc := NewSequenceService(repo, validator.New(), nil)

	empty := ""
	entry, err := svc.Update(context.Background(), "9A", "Forces", UpdateLessonRequest{TopicID: &empty})
	require.NoError(t, err)
	assert.Nil(t, entry.TopicID)
	assert.Nil(t, entry.TopicName)
}

func TestSequenceServiceReorderAssignsPositions(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Energy", "Waves")
	svc := NewSequenceService(repo, validator.New(), nil)

	entries, err := svc.Reorder(context.Background(), "9A", []string{"Waves", "Forces", "Energy"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Waves", entries[0].Title)
	assert.Equal(t, "Forces", entries[1].Title)
	assert.Equal(t, "Energy", entries[2].Title)
	for i, entry := range entries {
		assert.Equal(t, i, entry.Order)
	}
}

func TestSequenceServiceReorderRejectsPartialList(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Energy", "Waves")
	svc := NewSequenceService(repo, validator.New(), nil)

	_, err := svc.Reorder(context.Background(), "9A", []string{"Waves", "Forces"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	// The stored sequence is untouched by a rejected reorder.
	assert.Equal(t, 0, repo.saves)
	assert.Equal(t, "Forces", repo.data["9A"][0].Title)
}

func TestSequenceServiceReorderRejectsDuplicates(t *testing.T) {
	svc := NewSequenceService(seededSequenceRepo("9A", "Forces", "Energy"), validator.New(), nil)

	_, err := svc.Reorder(context.Background(), "9A", []string{"Forces", "Forces"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSequenceServiceReorderRejectsUnknownID(t *testing.T) {
	svc := NewSequenceService(seededSequenceRepo("9A", "Forces", "Energy"), validator.New(), nil)

	_, err := svc.Reorder(context.Background(), "9A", []string{"Forces", "Sound"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSequenceServiceListGroupedByContiguousTopicRuns(t *testing.T) {
	repo := seededSequenceRepo("9A", "Forces", "Friction", "Energy", "Waves")
	repo.data["9A"][0].TopicID = strPtr("t1")
	repo.data["9A"][0].TopicName = strPtr("Mechanics")
	repo.data["9A"][1].TopicID = strPtr("t1")
	repo.data["9A"][1].TopicName = strPtr("Mechanics")
	repo.data["9A"][3].TopicID = strPtr("t1")
	repo.data["9A"][3].TopicName = strPtr("Mechanics")
	svc := NewSequenceService(repo, validator.New(), nil)

	groups, err := svc.ListGrouped(context.Background(), "9A")
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Len(t, groups[0].Entries, 2)
	assert.Equal(t, "t1", *groups[0].TopicID)
	assert.Nil(t, groups[1].TopicID)
	// A non-contiguous repeat of the same topic starts a new group.
	assert.Len(t, groups[2].Entries, 1)
	assert.Equal(t, "t1", *groups[2].TopicID)
}
