package models

// Occurrence is one concrete future instance of a class meeting. It is
// derived from the timetable document and the holiday configuration and is
// never persisted.
type Occurrence struct {
	ClassID       string `json:"classId"`
	OccurrenceNum int    `json:"occurrenceNum"`
	Date          string `json:"date"`
	DayOfWeek     int    `json:"dayOfWeek"`
	WeekNumber    *int   `json:"weekNumber,omitempty"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Period        string `json:"period"`
	Room          string `json:"room,omitempty"`
	// SlotStartTimes keeps the pre-merge start time of every constituent
	// slot so a merged occurrence can still be located by its original slot.
	SlotStartTimes []string `json:"slotStartTimes"`
}
