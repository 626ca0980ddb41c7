package analysis

import (
	"sort"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// occurrenceRef ties one meeting occurrence back to its owning section, with
// minute bounds precomputed once per call.
type occurrenceRef struct {
	section    *models.Section
	occurrence models.MeetingOccurrence
	startMin   int
	endMin     int
}

type roomDayKey struct {
	roomID string
	day    models.Weekday
}

// collectRefs flattens sections into occurrence refs in input order.
// Degenerate occurrences whose end does not come after their start are
// incapable of overlap and are skipped here rather than faulting later.
func collectRefs(sections []models.Section) []occurrenceRef {
	var refs []occurrenceRef
	for i := range sections {
		sec := &sections[i]
		for _, occ := range sec.Meetings {
			start := ToMinutes(occ.StartTime)
			end := ToMinutes(occ.EndTime)
			if end <= start {
				continue
			}
			refs = append(refs, occurrenceRef{section: sec, occurrence: occ, startMin: start, endMin: end})
		}
	}
	return refs
}

// groupByInstructor partitions refs by the owning section's instructor id,
// preserving input order within each group. The returned key order is sorted
// so report assembly is deterministic.
func groupByInstructor(refs []occurrenceRef) (map[string][]occurrenceRef, []string) {
	groups := make(map[string][]occurrenceRef)
	for _, ref := range refs {
		id := ref.section.InstructorID
		groups[id] = append(groups[id], ref)
	}
	keys := make([]string, 0, len(groups))
	for id := range groups {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return groups, keys
}

// groupByRoomDay partitions refs by (room, day). Occurrences without a room
// never enter room or buffer analysis.
func groupByRoomDay(refs []occurrenceRef) (map[roomDayKey][]occurrenceRef, []roomDayKey) {
	groups := make(map[roomDayKey][]occurrenceRef)
	for _, ref := range refs {
		if ref.occurrence.RoomID == nil || *ref.occurrence.RoomID == "" {
			continue
		}
		key := roomDayKey{roomID: *ref.occurrence.RoomID, day: ref.occurrence.Day}
		groups[key] = append(groups[key], ref)
	}
	keys := make([]roomDayKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].roomID != keys[j].roomID {
			return keys[i].roomID < keys[j].roomID
		}
		return keys[i].day.Index() < keys[j].day.Index()
	})
	return groups, keys
}
