package analysis

import (
	"fmt"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

// detectPathwayIssues runs two independent passes over each pathway's
// required course codes: an unavailability pass (exact string match against
// offered sections, no fuzzy matching) and a pairwise exhaustive-conflict
// pass. The pair check is the full bipartite quantifier — an issue is raised
// only when EVERY section of one course conflicts with EVERY section of the
// other. Singleton offerings are not special-cased; the general form covers
// them. Joint feasibility across three or more courses is deliberately not
// attempted.
func detectPathwayIssues(pathways []models.Pathway, sections []models.Section) []PathwayIssue {
	byCourse := make(map[string][]*models.Section)
	for i := range sections {
		sec := &sections[i]
		byCourse[sec.CourseCode] = append(byCourse[sec.CourseCode], sec)
	}

	issues := make([]PathwayIssue, 0)
	for _, pathway := range pathways {
		codes := dedupeCodes(pathway.RequiredCourses)

		for _, code := range codes {
			if len(byCourse[code]) == 0 {
				issues = append(issues, PathwayIssue{
					PathwayName: pathway.Name,
					Message:     fmt.Sprintf("%s: no sections offered", code),
				})
			}
		}

		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				offeredA := byCourse[codes[i]]
				offeredB := byCourse[codes[j]]
				if len(offeredA) == 0 || len(offeredB) == 0 {
					continue
				}
				if allCombinationsConflict(offeredA, offeredB) {
					issues = append(issues, PathwayIssue{
						PathwayName: pathway.Name,
						Message:     fmt.Sprintf("%s conflicts with %s for all available sections", codes[i], codes[j]),
					})
				}
			}
		}
	}
	return issues
}

// dedupeCodes keeps the first occurrence of each required course code,
// preserving the pathway's declared order for stable reporting.
func dedupeCodes(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// allCombinationsConflict is true only when no pairing of one section from
// each list is attendable: a single conflict-free combination makes the
// course pair feasible.
func allCombinationsConflict(offeredA, offeredB []*models.Section) bool {
	for _, a := range offeredA {
		for _, b := range offeredB {
			if !sectionsConflict(a, b) {
				return false
			}
		}
	}
	return true
}

// sectionsConflict reports whether two sections share any day/time overlap.
// A section with no meetings never conflicts. Degenerate occurrences are
// treated as incapable of overlap.
func sectionsConflict(a, b *models.Section) bool {
	for _, occA := range a.Meetings {
		aStart := ToMinutes(occA.StartTime)
		aEnd := ToMinutes(occA.EndTime)
		if aEnd <= aStart {
			continue
		}
		for _, occB := range b.Meetings {
			if occA.Day != occB.Day {
				continue
			}
			bStart := ToMinutes(occB.StartTime)
			bEnd := ToMinutes(occB.EndTime)
			if bEnd <= bStart {
				continue
			}
			if Overlaps(aStart, aEnd, bStart, bEnd) {
				return true
			}
		}
	}
	return false
}
