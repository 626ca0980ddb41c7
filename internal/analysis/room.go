package analysis

import (
	"sort"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// detectRoomFindings walks each (room, day) group once: all pairs are tested
// for direct overlap, and for rooms whose type requires turnaround the
// chronologically consecutive pairs are additionally checked against the
// buffer threshold. The two categories are independent; an overlapping
// consecutive pair in a turnaround room produces both findings.
func detectRoomFindings(
	groups map[roomDayKey][]occurrenceRef,
	order []roomDayKey,
	rooms map[string]models.Room,
	bufferMinutes int,
) ([]RoomConflict, []BufferViolation) {
	conflicts := make([]RoomConflict, 0)
	violations := make([]BufferViolation, 0)

	for _, key := range order {
		refs := append([]occurrenceRef(nil), groups[key]...)
		// Stable sort keeps input order for identical start times, which
		// fixes which pair a buffer warning names first.
		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].startMin < refs[j].startMin
		})

		room, known := rooms[key.roomID]
		roomName := room.Name
		if !known || roomName == "" {
			roomName = key.roomID
		}

		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				a, b := refs[i], refs[j]
				if !Overlaps(a.startMin, a.endMin, b.startMin, b.endMin) {
					continue
				}
				conflicts = append(conflicts, RoomConflict{
					RoomName:    roomName,
					Day:         key.day,
					SectionA:    sectionRef(a.section),
					SectionB:    sectionRef(b.section),
					OccurrenceA: occurrenceOf(a.occurrence),
					OccurrenceB: occurrenceOf(b.occurrence),
				})
			}
		}

		if !known || !room.Type.RequiresTurnaround() {
			continue
		}
		for i := 0; i+1 < len(refs); i++ {
			first, second := refs[i], refs[i+1]
			gap := Gap(first.endMin, second.startMin)
			if gap >= bufferMinutes {
				continue
			}
			violations = append(violations, BufferViolation{
				RoomName:         roomName,
				Day:              key.day,
				FirstSection:     sectionRef(first.section),
				SecondSection:    sectionRef(second.section),
				FirstOccurrence:  occurrenceOf(first.occurrence),
				SecondOccurrence: occurrenceOf(second.occurrence),
				GapMinutes:       gap,
			})
		}
	}
	return conflicts, violations
}
