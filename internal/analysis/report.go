package analysis

import (
	"sort"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// SectionRef identifies a section inside a report entry.
type SectionRef struct {
	ID         string `json:"id"`
	CourseCode string `json:"courseCode"`
	Title      string `json:"title"`
	Label      string `json:"label"`
}

// Occurrence mirrors the meeting slot that participated in a finding.
type Occurrence struct {
	Day       models.Weekday `json:"day"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	RoomID    string         `json:"roomId,omitempty"`
}

// InstructorConflict reports two overlapping occurrences taught by the same
// instructor on the same day.
type InstructorConflict struct {
	InstructorName string         `json:"instructorName"`
	Day            models.Weekday `json:"day"`
	SectionA       SectionRef     `json:"sectionA"`
	SectionB       SectionRef     `json:"sectionB"`
	OccurrenceA    Occurrence     `json:"occurrenceA"`
	OccurrenceB    Occurrence     `json:"occurrenceB"`
}

// RoomConflict reports two overlapping occurrences booked into the same room
// on the same day.
type RoomConflict struct {
	RoomName    string         `json:"roomName"`
	Day         models.Weekday `json:"day"`
	SectionA    SectionRef     `json:"sectionA"`
	SectionB    SectionRef     `json:"sectionB"`
	OccurrenceA Occurrence     `json:"occurrenceA"`
	OccurrenceB Occurrence     `json:"occurrenceB"`
}

// BufferViolation reports consecutive bookings in a turnaround room with less
// idle time between them than the configured threshold. GapMinutes is
// negative when the pair actually overlaps; in that case a RoomConflict is
// emitted as well, independently.
type BufferViolation struct {
	RoomName         string         `json:"roomName"`
	Day              models.Weekday `json:"day"`
	FirstSection     SectionRef     `json:"firstSection"`
	SecondSection    SectionRef     `json:"secondSection"`
	FirstOccurrence  Occurrence     `json:"firstOccurrence"`
	SecondOccurrence Occurrence     `json:"secondOccurrence"`
	GapMinutes       int            `json:"gapMinutes"`
}

// PathwayIssue reports a required course with no offered sections, or a pair
// of required courses whose offered sections conflict in every combination.
type PathwayIssue struct {
	PathwayName string `json:"pathwayName"`
	Message     string `json:"message"`
}

// Report aggregates the findings of one analysis run.
type Report struct {
	InstructorConflicts  []InstructorConflict `json:"instructorConflicts"`
	RoomConflicts        []RoomConflict       `json:"roomConflicts"`
	BufferViolations     []BufferViolation    `json:"bufferViolations"`
	PathwayIssues        []PathwayIssue       `json:"pathwayIssues"`
	ConflictedSectionIDs []string             `json:"conflictedSectionIds"`
}

func sectionRef(sec *models.Section) SectionRef {
	return SectionRef{ID: sec.ID, CourseCode: sec.CourseCode, Title: sec.Title, Label: sec.Label}
}

func occurrenceOf(occ models.MeetingOccurrence) Occurrence {
	out := Occurrence{Day: occ.Day, StartTime: occ.StartTime, EndTime: occ.EndTime}
	if occ.RoomID != nil {
		out.RoomID = *occ.RoomID
	}
	return out
}

// conflictedSectionIDs derives the sorted distinct section ids implicated in
// at least one time-based finding. Pathway issues reference course codes, not
// sections, and are excluded.
func conflictedSectionIDs(report *Report) []string {
	seen := make(map[string]struct{})
	for _, c := range report.InstructorConflicts {
		seen[c.SectionA.ID] = struct{}{}
		seen[c.SectionB.ID] = struct{}{}
	}
	for _, c := range report.RoomConflicts {
		seen[c.SectionA.ID] = struct{}{}
		seen[c.SectionB.ID] = struct{}{}
	}
	for _, v := range report.BufferViolations {
		seen[v.FirstSection.ID] = struct{}{}
		seen[v.SecondSection.ID] = struct{}{}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
