package models

// TimetableDocument is the imported timetable export for a single teacher.
// It is validated at the import boundary and consumed read-only afterwards.
type TimetableDocument struct {
	Teacher          TeacherInfo       `json:"teacher"`
	TwoWeekTimetable bool              `json:"twoWeekTimetable"`
	Classes          []Class           `json:"classes"`
	RecurringLessons []RecurringLesson `json:"recurringLessons"`
	Duties           []Duty            `json:"duties,omitempty"`
}

// TeacherInfo identifies the owner of the imported timetable. ExportDate
// anchors fortnight parity and is required for two-week timetables.
type TeacherInfo struct {
	Name       string `json:"name"`
	ExportDate string `json:"exportDate,omitempty"`
}

// Class is one taught class within the timetable document.
type Class struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Subject       string  `json:"subject"`
	ClassSize     *int    `json:"classSize,omitempty"`
	TimetableCode *string `json:"timetableCode,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// RecurringLesson is one weekly timetable slot. WeekNumber is nil on weekly
// timetables and 1 or 2 on fortnightly ones.
type RecurringLesson struct {
	ID         string  `json:"id"`
	DayOfWeek  int     `json:"dayOfWeek"`
	WeekNumber *int    `json:"weekNumber,omitempty"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	ClassID    string  `json:"classId"`
	Subject    string  `json:"subject"`
	Room       *string `json:"room,omitempty"`
	Period     string  `json:"period"`
}

// Duty is a non-teaching supervision slot carried in the document.
type Duty struct {
	Week      *int   `json:"week,omitempty"`
	Day       int    `json:"day"`
	Period    string `json:"period"`
	Activity  string `json:"activity"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TimetableValidationError is returned when an imported document is rejected.
// No partial state is committed alongside it.
type TimetableValidationError struct {
	Type    string       `json:"type"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Error implements the error interface for validation errors.
func (e *TimetableValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
