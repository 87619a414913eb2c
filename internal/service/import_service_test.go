package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachdesk/planner-api/internal/models"
	appErrors "github.com/teachdesk/planner-api/pkg/errors"
)

type timetableRepoStub struct {
	doc   *models.TimetableDocument
	saves int
}

func (s *timetableRepoStub) Load(ctx context.Context) (*models.TimetableDocument, bool, error) {
	if s.doc == nil {
		return nil, false, nil
	}
	return s.doc, true, nil
}

func (s *timetableRepoStub) Save(ctx context.Context, doc *models.TimetableDocument) error {
	s.doc = doc
	s.saves++
	return nil
}

func fieldMessages(errs []models.FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestImportValidDocument(t *testing.T) {
	repo := &timetableRepoStub{}
	svc := NewImportService(repo, nil)

	require.NoError(t, svc.Import(context.Background(), weeklyDoc()))
	assert.Equal(t, 1, repo.saves)

	doc, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A. Teacher", doc.Teacher.Name)
}

func TestImportRejectsInvalidDocumentAtomically(t *testing.T) {
	repo := &timetableRepoStub{}
	svc := NewImportService(repo, nil)

	doc := weeklyDoc()
	doc.Teacher.Name = ""
	doc.RecurringLessons[0].DayOfWeek = 6
	doc.RecurringLessons[1].StartTime = "9:00"

	err := svc.Import(context.Background(), doc)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	var verr *models.TimetableValidationError
	require.True(t, errors.As(err, &verr))
	fields := fieldMessages(verr.Errors)
	assert.Contains(t, fields, "teacher.name")
	assert.Contains(t, fields, "recurringLessons[0].dayOfWeek")
	assert.Contains(t, fields, "recurringLessons[1].startTime")

	// Nothing is committed on rejection.
	assert.Equal(t, 0, repo.saves)
}

func TestGetWithoutImportIsNotFound(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestValidateTwoWeekRules(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	doc := fortnightDoc()
	doc.Teacher.ExportDate = ""
	doc.RecurringLessons[0].WeekNumber = nil
	doc.RecurringLessons[1].WeekNumber = intPtr(3)

	fields := fieldMessages(svc.Validate(doc))
	assert.Contains(t, fields, "teacher.exportDate")
	assert.Contains(t, fields, "recurringLessons[0].weekNumber")
	assert.Contains(t, fields, "recurringLessons[1].weekNumber")
}

func TestValidateWeekNumberForbiddenOnWeeklyTimetable(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	doc := weeklyDoc()
	doc.RecurringLessons[0].WeekNumber = intPtr(1)

	fields := fieldMessages(svc.Validate(doc))
	assert.Contains(t, fields, "recurringLessons[0].weekNumber")
}

func TestValidateClassReferences(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	doc := weeklyDoc()
	doc.RecurringLessons[0].ClassID = "ghost"

	fields := fieldMessages(svc.Validate(doc))
	assert.Equal(t, "classId does not reference a declared class", fields["recurringLessons[0].classId"])
}

func TestValidateRequiresClasses(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	fields := fieldMessages(svc.Validate(&models.TimetableDocument{Teacher: models.TeacherInfo{Name: "A. Teacher"}}))
	assert.Contains(t, fields, "classes")
}

func TestValidateDuties(t *testing.T) {
	svc := NewImportService(&timetableRepoStub{}, nil)

	doc := weeklyDoc()
	doc.Duties = []models.Duty{{Day: 0, Period: "B", Activity: "Yard", StartTime: "break", EndTime: "11:00"}}

	fields := fieldMessages(svc.Validate(doc))
	assert.Contains(t, fields, "duties[0].day")
	assert.Contains(t, fields, "duties[0].startTime")
	assert.NotContains(t, fields, "duties[0].endTime")
}
