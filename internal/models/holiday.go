package models

// HolidayPeriod is a named school holiday range. WeekMondays holds the ISO
// Mondays of weeks where all five weekdays fall inside the range; those weeks
// are skipped entirely by occurrence projection and parity counting.
// HolidayDates holds every weekday date inside the range regardless of whether
// its week is fully covered.
type HolidayPeriod struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	WeekMondays  []string `json:"weekMondays"`
	HolidayDates []string `json:"holidayDates"`
}
