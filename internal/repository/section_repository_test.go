package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursedeck/coursedeck-api/internal/models"
)

func newSectionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSectionRepositoryListByScenario(t *testing.T) {
	db, mock, cleanup := newSectionMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	sectionRows := sqlmock.NewRows([]string{"id", "scenario_id", "course_code", "title", "label", "kind", "modality", "instructor_id", "created_at", "updated_at"}).
		AddRow("sec-1", "scn-1", "CS 301", "Operating Systems", "A", "LECTURE", "IN_PERSON", "inst-1", time.Now(), time.Now()).
		AddRow("sec-2", "scn-1", "CS 301", "Operating Systems", "B", "LECTURE", "IN_PERSON", "inst-2", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, scenario_id, course_code, title, label, kind, modality, instructor_id, created_at, updated_at\s+FROM sections WHERE scenario_id = \$1`).
		WithArgs("scn-1").
		WillReturnRows(sectionRows)

	room := "room-1"
	meetingRows := sqlmock.NewRows([]string{"id", "section_id", "day_of_week", "start_time", "end_time", "room_id"}).
		AddRow("m-1", "sec-1", "MON", "09:00", "10:30", room).
		AddRow("m-2", "sec-1", "WED", "09:00", "10:30", room)
	mock.ExpectQuery(`FROM section_meetings WHERE section_id = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(meetingRows)

	sections, err := repo.ListByScenario(context.Background(), "scn-1")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Len(t, sections[0].Meetings, 2)
	assert.Equal(t, models.Monday, sections[0].Meetings[0].Day)
	assert.Empty(t, sections[1].Meetings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCreateInsertsMeetings(t *testing.T) {
	db, mock, cleanup := newSectionMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sections").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO section_meetings").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	section := &models.Section{
		ScenarioID:   "scn-1",
		CourseCode:   "CHEM 110L",
		Title:        "General Chemistry Lab",
		Label:        "L1",
		Kind:         models.KindLab,
		InstructorID: "inst-1",
		Meetings: []models.MeetingOccurrence{
			{Day: models.Tuesday, StartTime: "13:00", EndTime: "16:15"},
		},
	}
	err := repo.Create(context.Background(), section)
	require.NoError(t, err)
	assert.NotEmpty(t, section.ID)
	assert.Equal(t, section.ID, section.Meetings[0].SectionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryUpdateReplacesMeetings(t *testing.T) {
	db, mock, cleanup := newSectionMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE sections SET").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM section_meetings WHERE section_id = \$1`).
		WithArgs("sec-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO section_meetings").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	section := &models.Section{
		ID:         "sec-1",
		ScenarioID: "scn-1",
		CourseCode: "CS 301",
		Title:      "Operating Systems",
		Meetings: []models.MeetingOccurrence{
			{Day: models.Friday, StartTime: "10:00", EndTime: "11:30"},
		},
	}
	err := repo.Update(context.Background(), section, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newSectionMock(t)
	defer cleanup()
	repo := NewSectionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM section_meetings WHERE section_id = \$1`).
		WithArgs("sec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sections WHERE id = \$1`).
		WithArgs("sec-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
