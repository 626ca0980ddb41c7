package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
)

type scenarioRepository interface {
	List(ctx context.Context, filter models.ScenarioFilter) ([]models.Scenario, int, error)
	FindByID(ctx context.Context, id string) (*models.Scenario, error)
	Create(ctx context.Context, scenario *models.Scenario) error
	Update(ctx context.Context, scenario *models.Scenario) error
	Delete(ctx context.Context, id string) error
}

// ScenarioService handles scenario use-cases.
type ScenarioService struct {
	repo      scenarioRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScenarioService constructs the scenario service.
func NewScenarioService(repo scenarioRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ScenarioService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScenarioService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns scenarios and pagination metadata.
func (s *ScenarioService) List(ctx context.Context, filter models.ScenarioFilter) ([]models.Scenario, *models.Pagination, error) {
	scenarios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scenarios")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return scenarios, pagination, nil
}

// Get returns a scenario by id.
func (s *ScenarioService) Get(ctx context.Context, id string) (*models.Scenario, error) {
	scenario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scenario not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scenario")
	}
	return scenario, nil
}

// Create opens a new scenario.
func (s *ScenarioService) Create(ctx context.Context, req dto.CreateScenarioRequest) (*models.Scenario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scenario payload")
	}
	scenario := &models.Scenario{Name: req.Name, TermLabel: req.TermLabel}
	if err := s.repo.Create(ctx, scenario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scenario")
	}
	s.logger.Info("scenario created", zap.String("scenario_id", scenario.ID), zap.String("term", scenario.TermLabel))
	return scenario, nil
}

// Update applies partial changes to a scenario.
func (s *ScenarioService) Update(ctx context.Context, id string, req dto.UpdateScenarioRequest) (*models.Scenario, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scenario payload")
	}
	scenario, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		scenario.Name = *req.Name
	}
	if req.TermLabel != nil {
		scenario.TermLabel = *req.TermLabel
	}
	if err := s.repo.Update(ctx, scenario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scenario")
	}
	return scenario, nil
}

// Delete removes a scenario and its sections.
func (s *ScenarioService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete scenario")
	}
	s.invalidateAnalysis(ctx, id)
	return nil
}

func (s *ScenarioService) invalidateAnalysis(ctx context.Context, scenarioID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "analysis:scenario:"+scenarioID+":*"); err != nil {
		s.logger.Warn("analysis cache invalidation failed", zap.String("scenario_id", scenarioID), zap.Error(err))
	}
}
