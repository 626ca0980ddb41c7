package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type stubSectionRepo struct {
	created []*models.Section
	byID    map[string]*models.Section
}

func (s *stubSectionRepo) List(_ context.Context, _ models.SectionFilter) ([]models.Section, int, error) {
	return nil, 0, nil
}

func (s *stubSectionRepo) FindByID(_ context.Context, id string) (*models.Section, error) {
	if section, ok := s.byID[id]; ok {
		return section, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubSectionRepo) Create(_ context.Context, section *models.Section) error {
	s.created = append(s.created, section)
	return nil
}

func (s *stubSectionRepo) Update(_ context.Context, _ *models.Section, _ bool) error { return nil }
func (s *stubSectionRepo) Delete(_ context.Context, _ string) error                  { return nil }

type stubInstructorRegistry struct {
	instructors []models.Instructor
	created     []*models.Instructor
}

func (s *stubInstructorRegistry) ListAll(_ context.Context) ([]models.Instructor, error) {
	return s.instructors, nil
}

func (s *stubInstructorRegistry) Create(_ context.Context, instructor *models.Instructor) error {
	instructor.ID = "inst-new"
	s.created = append(s.created, instructor)
	return nil
}

type stubRoomLister struct{ rooms []models.Room }

func (s *stubRoomLister) ListAll(_ context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

func newSectionServiceForTest(repo *stubSectionRepo, instructors *stubInstructorRegistry, rooms *stubRoomLister) *SectionService {
	return NewSectionService(
		repo,
		&stubScenarioReader{scenario: &models.Scenario{ID: "scn-1"}},
		instructors,
		rooms,
		nil,
		nil,
		zap.NewNop(),
	)
}

func TestSectionServiceCreateRejectsInvertedWindow(t *testing.T) {
	svc := newSectionServiceForTest(&stubSectionRepo{}, &stubInstructorRegistry{}, &stubRoomLister{})

	_, err := svc.Create(context.Background(), "scn-1", dto.CreateSectionRequest{
		CourseCode: "CS 301",
		Title:      "Operating Systems",
		Meetings: []dto.MeetingOccurrenceRequest{
			{Day: "MON", StartTime: "11:00", EndTime: "10:00"},
		},
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSectionServiceCreateUnknownScenario(t *testing.T) {
	svc := newSectionServiceForTest(&stubSectionRepo{}, &stubInstructorRegistry{}, &stubRoomLister{})

	_, err := svc.Create(context.Background(), "missing", dto.CreateSectionRequest{
		CourseCode: "CS 301",
		Title:      "Operating Systems",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSectionServiceImportCSVMergesRowsAndReportsErrors(t *testing.T) {
	repo := &stubSectionRepo{}
	instructors := &stubInstructorRegistry{
		instructors: []models.Instructor{{ID: "inst-1", FullName: "Dr. Chen"}},
	}
	rooms := &stubRoomLister{
		rooms: []models.Room{{ID: "room-1", Name: "SC-312", Type: models.RoomLab}},
	}
	svc := newSectionServiceForTest(repo, instructors, rooms)

	payload := []byte(`course_code,title,label,kind,instructor,day,start_time,end_time,room
CS 301,Operating Systems,A,LECTURE,Dr. Chen,MON,09:00,10:30,SC-312
CS 301,Operating Systems,A,LECTURE,Dr. Chen,WED,09:00,10:30,SC-312
CHEM 110L,General Chemistry Lab,L1,LAB,Prof. Okafor,TUE,13:00,16:15,SC-312
BAD 100,Bad Row,A,LECTURE,,FUNDAY,09:00,10:00,
BAD 200,Worse Row,A,LECTURE,,MON,09:00,10:00,Unknown Hall
`)

	result, err := svc.ImportCSV(context.Background(), "scn-1", payload)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Message, "FUNDAY")
	assert.Contains(t, result.Errors[1].Message, "Unknown Hall")

	require.Len(t, repo.created, 2)
	byCode := map[string]*models.Section{}
	for _, section := range repo.created {
		byCode[section.CourseCode] = section
	}
	require.Contains(t, byCode, "CS 301")
	assert.Len(t, byCode["CS 301"].Meetings, 2)
	assert.Equal(t, "inst-1", byCode["CS 301"].InstructorID)
	require.NotNil(t, byCode["CS 301"].Meetings[0].RoomID)
	assert.Equal(t, "room-1", *byCode["CS 301"].Meetings[0].RoomID)

	// Prof. Okafor was not on the roster and gets registered on the fly.
	require.Len(t, instructors.created, 1)
	assert.Equal(t, "Prof. Okafor", instructors.created[0].FullName)
	assert.Equal(t, "inst-new", byCode["CHEM 110L"].InstructorID)
}

func TestSectionServiceImportCSVEmptyPayload(t *testing.T) {
	svc := newSectionServiceForTest(&stubSectionRepo{}, &stubInstructorRegistry{}, &stubRoomLister{})

	_, err := svc.ImportCSV(context.Background(), "scn-1", []byte("course_code,title,label,kind,instructor,day,start_time,end_time,room\n"))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
