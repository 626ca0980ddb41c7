package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type memCacheRepo struct {
	store map[string][]byte
	sets  int
}

func (m *memCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	payload, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *memCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = payload
	m.sets++
	return nil
}

func (m *memCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.store = make(map[string][]byte)
	return nil
}

type stubScenarioReader struct {
	scenario *models.Scenario
}

func (s *stubScenarioReader) FindByID(_ context.Context, id string) (*models.Scenario, error) {
	if s.scenario == nil || s.scenario.ID != id {
		return nil, sql.ErrNoRows
	}
	return s.scenario, nil
}

type stubSectionReader struct {
	sections []models.Section
	calls    int
}

func (s *stubSectionReader) ListByScenario(_ context.Context, _ string) ([]models.Section, error) {
	s.calls++
	return s.sections, nil
}

type stubInstructorReader struct{ instructors []models.Instructor }

func (s *stubInstructorReader) ListAll(_ context.Context) ([]models.Instructor, error) {
	return s.instructors, nil
}

type stubRoomReader struct{ rooms []models.Room }

func (s *stubRoomReader) ListAll(_ context.Context) ([]models.Room, error) {
	return s.rooms, nil
}

type stubPathwayReader struct{ pathways []models.Pathway }

func (s *stubPathwayReader) ListAll(_ context.Context) ([]models.Pathway, error) {
	return s.pathways, nil
}

func newAnalysisServiceForTest(sections []models.Section, cacheRepo *memCacheRepo) (*AnalysisService, *stubSectionReader) {
	reader := &stubSectionReader{sections: sections}
	cache := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	return NewAnalysisService(
		&stubScenarioReader{scenario: &models.Scenario{ID: "scn-1", Name: "Fall Draft", TermLabel: "2026FA"}},
		reader,
		&stubInstructorReader{instructors: []models.Instructor{{ID: "inst-1", FullName: "Dr. Chen"}}},
		&stubRoomReader{},
		&stubPathwayReader{},
		cache,
		nil,
		zap.NewNop(),
		AnalysisServiceConfig{DefaultBufferMinutes: 30, CacheTTL: time.Minute},
	), reader
}

func doubleBookedSections() []models.Section {
	return []models.Section{
		{
			ID: "sec-1", ScenarioID: "scn-1", CourseCode: "CS 301", Title: "Operating Systems", Label: "A", InstructorID: "inst-1",
			Meetings: []models.MeetingOccurrence{{Day: models.Tuesday, StartTime: "13:00", EndTime: "15:00"}},
		},
		{
			ID: "sec-2", ScenarioID: "scn-1", CourseCode: "MATH 210", Title: "Linear Algebra", Label: "B", InstructorID: "inst-1",
			Meetings: []models.MeetingOccurrence{{Day: models.Tuesday, StartTime: "14:00", EndTime: "14:30"}},
		},
	}
}

func TestAnalysisServiceRunComputesReport(t *testing.T) {
	svc, _ := newAnalysisServiceForTest(doubleBookedSections(), &memCacheRepo{})

	report, err := svc.Run(context.Background(), "scn-1", nil)
	require.NoError(t, err)
	require.Len(t, report.InstructorConflicts, 1)
	assert.Equal(t, "Dr. Chen", report.InstructorConflicts[0].InstructorName)
	assert.Equal(t, []string{"sec-1", "sec-2"}, report.ConflictedSectionIDs)
}

func TestAnalysisServiceRunMemoizesIdenticalInputs(t *testing.T) {
	cacheRepo := &memCacheRepo{}
	svc, _ := newAnalysisServiceForTest(doubleBookedSections(), cacheRepo)

	first, err := svc.Run(context.Background(), "scn-1", nil)
	require.NoError(t, err)
	second, err := svc.Run(context.Background(), "scn-1", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, cacheRepo.sets, "identical snapshot must be computed once")
	assert.Equal(t, first, second)
}

func TestAnalysisServiceRunBufferChangesCacheKey(t *testing.T) {
	cacheRepo := &memCacheRepo{}
	svc, _ := newAnalysisServiceForTest(doubleBookedSections(), cacheRepo)

	_, err := svc.Run(context.Background(), "scn-1", nil)
	require.NoError(t, err)
	buffer := 45
	_, err = svc.Run(context.Background(), "scn-1", &buffer)
	require.NoError(t, err)

	assert.Equal(t, 2, cacheRepo.sets)
}

func TestAnalysisServiceRunUnknownScenario(t *testing.T) {
	svc, _ := newAnalysisServiceForTest(nil, &memCacheRepo{})

	_, err := svc.Run(context.Background(), "missing", nil)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAnalysisServiceRunRejectsNegativeBuffer(t *testing.T) {
	svc, _ := newAnalysisServiceForTest(nil, &memCacheRepo{})

	buffer := -5
	_, err := svc.Run(context.Background(), "scn-1", &buffer)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}
