package models

import "sort"

// LessonLink is an ordered external reference attached to a lesson entry.
type LessonLink struct {
	URL   string `json:"url"`
	Label string `json:"label"`
}

// LessonContentEntry is one teacher-authored lesson in a class's content
// sequence. Order values are 0-based, contiguous and unique within a class.
type LessonContentEntry struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Notes     string       `json:"notes,omitempty"`
	Links     []LessonLink `json:"links,omitempty"`
	Order     int          `json:"order"`
	TopicID   *string      `json:"topicId,omitempty"`
	TopicName *string      `json:"topicName,omitempty"`
}

// ScheduleBinding maps sequence positions onto occurrence numbers through a
// single per-class offset: occurrence n shows sequence[startIndex+n].
type ScheduleBinding struct {
	StartIndex int `json:"startIndex"`
}

// LessonTopicGroup is a read-time projection of a contiguous run of entries
// sharing the same topic. Grouping never changes the flat order values.
type LessonTopicGroup struct {
	TopicID   *string              `json:"topicId,omitempty"`
	TopicName *string              `json:"topicName,omitempty"`
	Entries   []LessonContentEntry `json:"entries"`
}

// PlannedLesson pairs a projected occurrence with the content currently bound
// to it; Content is nil when the occurrence is not yet scheduled.
type PlannedLesson struct {
	Occurrence Occurrence          `json:"occurrence"`
	Content    *LessonContentEntry `json:"content,omitempty"`
}

// LegacyLessonContent is a date-keyed content record from before sequences
// existed. It is only read by the remapping engine, which either relocates
// its date key after a holiday change or migrates it into a structured
// sequence.
type LegacyLessonContent struct {
	Title string       `json:"title"`
	Notes string       `json:"notes,omitempty"`
	Links []LessonLink `json:"links,omitempty"`
}

// NormalizeLessonOrder sorts entries by their order values and reassigns
// contiguous 0-based order, closing any gaps. Ties keep their relative
// position. This is the single place the order invariant is maintained;
// persisted records are normalized on every load so corrupted order values
// never reach consumers that assume contiguity.
func NormalizeLessonOrder(entries []LessonContentEntry) []LessonContentEntry {
	out := make([]LessonContentEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	for i := range out {
		out[i].Order = i
	}
	return out
}
