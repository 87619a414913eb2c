package service

import "time"

// All planner dates are local wall-clock days encoded as ISO "YYYY-MM-DD"
// strings; lexicographic comparison matches chronological order.
const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// mondayOf returns the Monday of the week containing t.
func mondayOf(t time.Time) time.Time {
	offset := isoWeekday(t) - 1
	return addDays(t, -offset)
}

// isoWeekday maps time.Weekday onto ISO numbering, Monday=1 .. Sunday=7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
