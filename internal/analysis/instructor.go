package analysis

// detectInstructorConflicts compares every unordered pair of occurrences per
// instructor. The quadratic pass is bounded by one person's weekly teaching
// load. Three mutually overlapping occurrences yield three pair entries; full
// detail is preserved for the report.
func detectInstructorConflicts(groups map[string][]occurrenceRef, order []string, names map[string]string) []InstructorConflict {
	conflicts := make([]InstructorConflict, 0)
	for _, instructorID := range order {
		refs := groups[instructorID]
		name := names[instructorID]
		if name == "" {
			name = instructorID
		}
		for i := 0; i < len(refs); i++ {
			for j := i + 1; j < len(refs); j++ {
				a, b := refs[i], refs[j]
				if a.occurrence.Day != b.occurrence.Day {
					continue
				}
				if !Overlaps(a.startMin, a.endMin, b.startMin, b.endMin) {
					continue
				}
				conflicts = append(conflicts, InstructorConflict{
					InstructorName: name,
					Day:            a.occurrence.Day,
					SectionA:       sectionRef(a.section),
					SectionB:       sectionRef(b.section),
					OccurrenceA:    occurrenceOf(a.occurrence),
					OccurrenceB:    occurrenceOf(b.occurrence),
				})
			}
		}
	}
	return conflicts
}
