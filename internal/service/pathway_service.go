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

type pathwayRepository interface {
	List(ctx context.Context, filter models.PathwayFilter) ([]models.Pathway, int, error)
	FindByID(ctx context.Context, id string) (*models.Pathway, error)
	Create(ctx context.Context, pathway *models.Pathway) error
	Update(ctx context.Context, pathway *models.Pathway) error
	Delete(ctx context.Context, id string) error
}

// PathwayService handles pathway registry use-cases.
type PathwayService struct {
	repo      pathwayRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPathwayService constructs the pathway service.
func NewPathwayService(repo pathwayRepository, validate *validator.Validate, logger *zap.Logger) *PathwayService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PathwayService{repo: repo, validator: validate, logger: logger}
}

// List returns pathways and pagination metadata.
func (s *PathwayService) List(ctx context.Context, filter models.PathwayFilter) ([]models.Pathway, *models.Pagination, error) {
	pathways, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pathways")
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
	return pathways, pagination, nil
}

// Get returns a pathway by id.
func (s *PathwayService) Get(ctx context.Context, id string) (*models.Pathway, error) {
	pathway, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "pathway not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load pathway")
	}
	return pathway, nil
}

// Create registers a pathway.
func (s *PathwayService) Create(ctx context.Context, req dto.CreatePathwayRequest) (*models.Pathway, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pathway payload")
	}
	pathway := &models.Pathway{Name: req.Name, RequiredCourses: req.RequiredCourses}
	if err := s.repo.Create(ctx, pathway); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create pathway")
	}
	return pathway, nil
}

// Update applies partial changes to a pathway.
func (s *PathwayService) Update(ctx context.Context, id string, req dto.UpdatePathwayRequest) (*models.Pathway, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pathway payload")
	}
	pathway, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		pathway.Name = *req.Name
	}
	if req.RequiredCourses != nil {
		pathway.RequiredCourses = *req.RequiredCourses
	}
	if err := s.repo.Update(ctx, pathway); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update pathway")
	}
	return pathway, nil
}

// Delete removes a pathway.
func (s *PathwayService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete pathway")
	}
	return nil
}
