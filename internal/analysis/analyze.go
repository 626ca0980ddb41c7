// Package analysis derives every instructor double-booking, room
// double-booking, turnaround-buffer violation, and pathway-infeasibility
// condition from one scenario's draft offerings.
//
// Every entry point is a pure computation: the package performs no I/O,
// never mutates its inputs, and holds no state between calls, so re-running
// with an identical snapshot yields a deeply equal report. Inputs are taken
// as degraded-but-non-fatal: unresolved instructor or room references fall
// back to the raw identifier, occurrences with non-positive duration are
// treated as incapable of overlap, and empty collections yield an empty
// report.
//
// Pathway feasibility is checked pairwise only. A pathway can be feasible
// for every course pair yet have no single attendable combination across
// three or more courses; detecting that would need a matching or coloring
// pass over a per-course conflict graph and is left as an extension.
package analysis

import "github.com/coursedeck/coursedeck-api/internal/models"

// Analyze computes the full conflict report for a single scenario's
// sections. The caller supplies sections already filtered to one scenario,
// the instructor/room/pathway registries for reference resolution, and the
// scenario-wide turnaround buffer in minutes.
func Analyze(
	sections []models.Section,
	instructors []models.Instructor,
	rooms []models.Room,
	pathways []models.Pathway,
	bufferMinutes int,
) *Report {
	names := make(map[string]string, len(instructors))
	for _, instructor := range instructors {
		names[instructor.ID] = instructor.FullName
	}
	roomsByID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		roomsByID[room.ID] = room
	}

	refs := collectRefs(sections)
	byInstructor, instructorOrder := groupByInstructor(refs)
	byRoomDay, roomDayOrder := groupByRoomDay(refs)

	report := &Report{}
	report.InstructorConflicts = detectInstructorConflicts(byInstructor, instructorOrder, names)
	report.RoomConflicts, report.BufferViolations = detectRoomFindings(byRoomDay, roomDayOrder, roomsByID, bufferMinutes)
	report.PathwayIssues = detectPathwayIssues(pathways, sections)
	report.ConflictedSectionIDs = conflictedSectionIDs(report)
	return report
}
