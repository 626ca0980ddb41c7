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

type stubScenarioRepo struct {
	scenarios map[string]*models.Scenario
	deleted   []string
}

func (s *stubScenarioRepo) List(_ context.Context, _ models.ScenarioFilter) ([]models.Scenario, int, error) {
	out := make([]models.Scenario, 0, len(s.scenarios))
	for _, scenario := range s.scenarios {
		out = append(out, *scenario)
	}
	return out, len(out), nil
}

func (s *stubScenarioRepo) FindByID(_ context.Context, id string) (*models.Scenario, error) {
	if scenario, ok := s.scenarios[id]; ok {
		return scenario, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubScenarioRepo) Create(_ context.Context, scenario *models.Scenario) error {
	scenario.ID = "scn-created"
	if s.scenarios == nil {
		s.scenarios = make(map[string]*models.Scenario)
	}
	s.scenarios[scenario.ID] = scenario
	return nil
}

func (s *stubScenarioRepo) Update(_ context.Context, _ *models.Scenario) error { return nil }

func (s *stubScenarioRepo) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestScenarioServiceCreate(t *testing.T) {
	repo := &stubScenarioRepo{}
	svc := NewScenarioService(repo, nil, nil, zap.NewNop())

	scenario, err := svc.Create(context.Background(), dto.CreateScenarioRequest{Name: "Fall Draft 3", TermLabel: "2026FA"})
	require.NoError(t, err)
	assert.Equal(t, "scn-created", scenario.ID)
	assert.Equal(t, "2026FA", scenario.TermLabel)
}

func TestScenarioServiceCreateValidates(t *testing.T) {
	svc := NewScenarioService(&stubScenarioRepo{}, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), dto.CreateScenarioRequest{Name: "x"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestScenarioServiceGetNotFound(t *testing.T) {
	svc := NewScenarioService(&stubScenarioRepo{}, nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestScenarioServiceDelete(t *testing.T) {
	repo := &stubScenarioRepo{scenarios: map[string]*models.Scenario{
		"scn-1": {ID: "scn-1", Name: "Fall Draft", TermLabel: "2026FA"},
	}}
	svc := NewScenarioService(repo, nil, nil, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "scn-1"))
	assert.Equal(t, []string{"scn-1"}, repo.deleted)
}
