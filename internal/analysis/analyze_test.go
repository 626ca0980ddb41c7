package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

func TestAnalyzeEmptyInputsYieldsEmptyReport(t *testing.T) {
	report := Analyze(nil, nil, nil, nil, 30)

	assert.Empty(t, report.InstructorConflicts)
	assert.Empty(t, report.RoomConflicts)
	assert.Empty(t, report.BufferViolations)
	assert.Empty(t, report.PathwayIssues)
	assert.Empty(t, report.ConflictedSectionIDs)
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	sections := []models.Section{
		fixtureSection("sec-1", "CHEM 101", "inst-1",
			fixtureMeeting(models.Tuesday, "13:00", "15:00", "room-1")),
		fixtureSection("sec-2", "CHEM 101L", "inst-1",
			fixtureMeeting(models.Tuesday, "14:00", "14:30", "room-1")),
	}
	instructors := []models.Instructor{{ID: "inst-1", FullName: "Dr. Chen"}}
	rooms := []models.Room{{ID: "room-1", Name: "SC-312", Type: models.RoomLab}}
	pathways := []models.Pathway{{ID: "pw-1", Name: "Chemistry Core", RequiredCourses: []string{"CHEM 101", "CHEM 101L"}}}

	first := Analyze(sections, instructors, rooms, pathways, 30)
	second := Analyze(sections, instructors, rooms, pathways, 30)
	assert.Equal(t, first, second)
}

func TestInstructorConflictSingleOverlappingPair(t *testing.T) {
	sections := []models.Section{
		fixtureSection("sec-x", "PHYS 210", "inst-chen",
			fixtureMeeting(models.Tuesday, "13:00", "15:00", "")),
		fixtureSection("sec-y", "PHYS 220", "inst-chen",
			fixtureMeeting(models.Tuesday, "14:00", "14:30", "")),
	}
	instructors := []models.Instructor{{ID: "inst-chen", FullName: "Dr. Chen"}}

	report := Analyze(sections, instructors, nil, nil, 30)

	require.Len(t, report.InstructorConflicts, 1)
	conflict := report.InstructorConflicts[0]
	assert.Equal(t, "Dr. Chen", conflict.InstructorName)
	assert.Equal(t, models.Tuesday, conflict.Day)
	assert.Equal(t, "sec-x", conflict.SectionA.ID)
	assert.Equal(t, "sec-y", conflict.SectionB.ID)
	assert.ElementsMatch(t, []string{"sec-x", "sec-y"}, report.ConflictedSectionIDs)
}

func TestInstructorConflictPairwiseCompleteness(t *testing.T) {
	// Four mutually overlapping occurrences produce 4*3/2 pair entries.
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "")),
		fixtureSection("s2", "C2", "inst-1", fixtureMeeting(models.Monday, "09:30", "11:30", "")),
		fixtureSection("s3", "C3", "inst-1", fixtureMeeting(models.Monday, "10:00", "11:00", "")),
		fixtureSection("s4", "C4", "inst-1", fixtureMeeting(models.Monday, "10:15", "10:45", "")),
	}

	report := Analyze(sections, nil, nil, nil, 0)
	assert.Len(t, report.InstructorConflicts, 6)
}

func TestInstructorNameFallsBackToRawID(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "ghost-id", fixtureMeeting(models.Friday, "09:00", "10:00", "")),
		fixtureSection("s2", "C2", "ghost-id", fixtureMeeting(models.Friday, "09:30", "10:30", "")),
	}

	report := Analyze(sections, nil, nil, nil, 0)
	require.Len(t, report.InstructorConflicts, 1)
	assert.Equal(t, "ghost-id", report.InstructorConflicts[0].InstructorName)
}

func TestTouchingOccurrencesNeverConflict(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Wednesday, "09:00", "10:00", "room-1")),
		fixtureSection("s2", "C2", "inst-1", fixtureMeeting(models.Wednesday, "10:00", "11:00", "room-1")),
	}
	rooms := []models.Room{{ID: "room-1", Name: "Hall A", Type: models.RoomClassroom}}

	report := Analyze(sections, nil, rooms, nil, 0)
	assert.Empty(t, report.InstructorConflicts)
	assert.Empty(t, report.RoomConflicts)
}

func TestSameTimesDifferentDaysNeverConflict(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:00", "room-1")),
		fixtureSection("s2", "C2", "inst-1", fixtureMeeting(models.Tuesday, "09:00", "10:00", "room-1")),
	}
	rooms := []models.Room{{ID: "room-1", Name: "Hall A", Type: models.RoomClassroom}}

	report := Analyze(sections, nil, rooms, nil, 0)
	assert.Empty(t, report.InstructorConflicts)
	assert.Empty(t, report.RoomConflicts)
}

func TestRoomBufferViolationWithoutDirectConflict(t *testing.T) {
	// Lab hosts 13:00-16:15 then 16:25-19:25 with a 30 minute threshold:
	// the ten minute gap violates the buffer but the slots do not overlap.
	sections := []models.Section{
		fixtureSection("s1", "CHEM 310L", "inst-1", fixtureMeeting(models.Thursday, "13:00", "16:15", "lab-1")),
		fixtureSection("s2", "BIO 220L", "inst-2", fixtureMeeting(models.Thursday, "16:25", "19:25", "lab-1")),
	}
	rooms := []models.Room{{ID: "lab-1", Name: "SC-312", Type: models.RoomLab}}

	report := Analyze(sections, nil, rooms, nil, 30)

	assert.Empty(t, report.RoomConflicts)
	require.Len(t, report.BufferViolations, 1)
	violation := report.BufferViolations[0]
	assert.Equal(t, "SC-312", violation.RoomName)
	assert.Equal(t, models.Thursday, violation.Day)
	assert.Equal(t, 10, violation.GapMinutes)
	assert.Equal(t, "s1", violation.FirstSection.ID)
	assert.Equal(t, "s2", violation.SecondSection.ID)
	assert.ElementsMatch(t, []string{"s1", "s2"}, report.ConflictedSectionIDs)
}

func TestOverlappingLabPairEmitsConflictAndBufferViolation(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "CHEM 310L", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "lab-1")),
		fixtureSection("s2", "BIO 220L", "inst-2", fixtureMeeting(models.Monday, "11:30", "14:00", "lab-1")),
	}
	rooms := []models.Room{{ID: "lab-1", Name: "SC-312", Type: models.RoomLab}}

	report := Analyze(sections, nil, rooms, nil, 15)

	require.Len(t, report.RoomConflicts, 1)
	require.Len(t, report.BufferViolations, 1)
	assert.Equal(t, -30, report.BufferViolations[0].GapMinutes)
}

func TestNonTurnaroundRoomNeverEmitsBufferViolations(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:00", "room-1")),
		fixtureSection("s2", "C2", "inst-2", fixtureMeeting(models.Monday, "10:05", "11:00", "room-1")),
	}
	rooms := []models.Room{{ID: "room-1", Name: "Hall A", Type: models.RoomClassroom}}

	report := Analyze(sections, nil, rooms, nil, 120)
	assert.Empty(t, report.BufferViolations)
}

func TestBufferChecksConsecutivePairsOnly(t *testing.T) {
	// Three tight bookings: the buffer pass compares i with i+1 only, so two
	// violations, not three.
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:00", "lab-1")),
		fixtureSection("s2", "C2", "inst-2", fixtureMeeting(models.Monday, "10:05", "11:00", "lab-1")),
		fixtureSection("s3", "C3", "inst-3", fixtureMeeting(models.Monday, "11:10", "12:00", "lab-1")),
	}
	rooms := []models.Room{{ID: "lab-1", Name: "SC-312", Type: models.RoomLab}}

	report := Analyze(sections, nil, rooms, nil, 30)
	assert.Len(t, report.BufferViolations, 2)
	assert.Empty(t, report.RoomConflicts)
}

func TestRoomlessOccurrencesSkipRoomAnalysis(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "")),
		fixtureSection("s2", "C2", "inst-2", fixtureMeeting(models.Monday, "09:00", "12:00", "")),
	}

	report := Analyze(sections, nil, nil, nil, 30)
	assert.Empty(t, report.RoomConflicts)
	assert.Empty(t, report.BufferViolations)
}

func TestUnknownRoomFallsBackToRawIDWithoutBufferRule(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:00", "11:00", "mystery-room")),
		fixtureSection("s2", "C2", "inst-2", fixtureMeeting(models.Monday, "10:00", "12:00", "mystery-room")),
	}

	report := Analyze(sections, nil, nil, nil, 30)

	require.Len(t, report.RoomConflicts, 1)
	assert.Equal(t, "mystery-room", report.RoomConflicts[0].RoomName)
	// Unresolved rooms have no type, so the buffer rule cannot apply.
	assert.Empty(t, report.BufferViolations)
}

func TestDegenerateOccurrencesNeverOverlap(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "12:00", "09:00", "room-1")),
		fixtureSection("s2", "C2", "inst-1", fixtureMeeting(models.Monday, "08:00", "13:00", "room-1")),
	}
	rooms := []models.Room{{ID: "room-1", Name: "Hall A", Type: models.RoomLab}}

	report := Analyze(sections, nil, rooms, nil, 30)
	assert.Empty(t, report.InstructorConflicts)
	assert.Empty(t, report.RoomConflicts)
	assert.Empty(t, report.BufferViolations)
}

func TestConflictedSectionIDsAreDistinctAndSorted(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s3", "C3", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "room-1")),
		fixtureSection("s1", "C1", "inst-1", fixtureMeeting(models.Monday, "09:30", "11:30", "room-1")),
		fixtureSection("s2", "C2", "inst-1", fixtureMeeting(models.Monday, "10:00", "11:00", "room-1")),
	}
	rooms := []models.Room{{ID: "room-1", Name: "Hall A", Type: models.RoomClassroom}}

	report := Analyze(sections, nil, rooms, nil, 0)
	assert.Equal(t, []string{"s1", "s2", "s3"}, report.ConflictedSectionIDs)
}

// --- Fixtures ---

func fixtureSection(id, courseCode, instructorID string, meetings ...models.MeetingOccurrence) models.Section {
	for i := range meetings {
		meetings[i].SectionID = id
	}
	return models.Section{
		ID:           id,
		ScenarioID:   "scn-1",
		CourseCode:   courseCode,
		Title:        courseCode,
		Label:        "01",
		Kind:         models.KindLecture,
		Modality:     "IN_PERSON",
		InstructorID: instructorID,
		Meetings:     meetings,
	}
}

func fixtureMeeting(day models.Weekday, start, end, roomID string) models.MeetingOccurrence {
	occ := models.MeetingOccurrence{Day: day, StartTime: start, EndTime: end}
	if roomID != "" {
		occ.RoomID = &roomID
	}
	return occ
}
