package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

func TestPathwayReportsUnavailableCourse(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "MATH 201", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:00", "")),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Math Minor", RequiredCourses: []string{"MATH 201", "MATH 305"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)

	require.Len(t, report.PathwayIssues, 1)
	assert.Equal(t, "Math Minor", report.PathwayIssues[0].PathwayName)
	assert.Equal(t, "MATH 305: no sections offered", report.PathwayIssues[0].Message)
}

func TestPathwayFeasibleCombinationSuppressesIssue(t *testing.T) {
	// A1 clashes with B1 but is free against B2: one attendable combination
	// keeps the course pair feasible.
	sections := []models.Section{
		fixtureSection("a1", "CS 301", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:30", "")),
		fixtureSection("b1", "CS 330", "inst-2", fixtureMeeting(models.Monday, "09:30", "11:00", "")),
		fixtureSection("b2", "CS 330", "inst-3", fixtureMeeting(models.Tuesday, "09:30", "11:00", "")),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Systems Track", RequiredCourses: []string{"CS 301", "CS 330"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)
	assert.Empty(t, report.PathwayIssues)
}

func TestPathwayAllCombinationsConflict(t *testing.T) {
	// Three sections of A against two of B: all six combinations clash.
	sections := []models.Section{
		fixtureSection("a1", "CS 301", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "")),
		fixtureSection("a2", "CS 301", "inst-2", fixtureMeeting(models.Monday, "09:30", "11:00", "")),
		fixtureSection("a3", "CS 301", "inst-3", fixtureMeeting(models.Monday, "10:00", "11:30", "")),
		fixtureSection("b1", "CS 330", "inst-4", fixtureMeeting(models.Monday, "09:15", "10:15", "")),
		fixtureSection("b2", "CS 330", "inst-5", fixtureMeeting(models.Monday, "10:30", "11:45", "")),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Systems Track", RequiredCourses: []string{"CS 301", "CS 330"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)

	require.Len(t, report.PathwayIssues, 1)
	assert.Equal(t, "CS 301 conflicts with CS 330 for all available sections", report.PathwayIssues[0].Message)
}

func TestPathwayMeetinglessSectionIsAlwaysFeasible(t *testing.T) {
	// An asynchronous section has no occurrences and can never conflict,
	// so its course pairs are always feasible.
	sections := []models.Section{
		fixtureSection("a1", "CS 301", "inst-1", fixtureMeeting(models.Monday, "09:00", "12:00", "")),
		fixtureSection("b1", "CS 330", "inst-2"),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Systems Track", RequiredCourses: []string{"CS 301", "CS 330"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)
	assert.Empty(t, report.PathwayIssues)
}

func TestPathwayNonOverlappingPhysicsPairIsFeasible(t *testing.T) {
	sections := []models.Section{
		fixtureSection("lec", "PHYS 210", "inst-1",
			fixtureMeeting(models.Monday, "19:35", "21:00", ""),
			fixtureMeeting(models.Wednesday, "19:35", "21:00", "")),
		fixtureSection("lab", "PHYS 210L", "inst-2",
			fixtureMeeting(models.Monday, "16:25", "19:25", "lab-1")),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Physics Major Core", RequiredCourses: []string{"PHYS 210", "PHYS 210L"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)
	assert.Empty(t, report.PathwayIssues)
}

func TestPathwayCourseMatchingIsExact(t *testing.T) {
	sections := []models.Section{
		fixtureSection("s1", "PHYS 210", "inst-1", fixtureMeeting(models.Monday, "09:00", "10:00", "")),
	}
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Physics Major Core", RequiredCourses: []string{"PHYS 210L"}},
	}

	report := Analyze(sections, nil, nil, pathways, 30)

	require.Len(t, report.PathwayIssues, 1)
	assert.Equal(t, "PHYS 210L: no sections offered", report.PathwayIssues[0].Message)
}

func TestPathwayDuplicateRequiredCodesReportedOnce(t *testing.T) {
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Core", RequiredCourses: []string{"CS 101", "CS 101"}},
	}

	report := Analyze(nil, nil, nil, pathways, 30)
	assert.Len(t, report.PathwayIssues, 1)
}

func TestPathwayIssuesExcludedFromConflictedSectionIDs(t *testing.T) {
	pathways := []models.Pathway{
		{ID: "pw-1", Name: "Core", RequiredCourses: []string{"CS 101"}},
	}

	report := Analyze(nil, nil, nil, pathways, 30)
	require.Len(t, report.PathwayIssues, 1)
	assert.Empty(t, report.ConflictedSectionIDs)
}
