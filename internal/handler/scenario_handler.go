package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type scenarioService interface {
	List(ctx context.Context, filter models.ScenarioFilter) ([]models.Scenario, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Scenario, error)
	Create(ctx context.Context, req dto.CreateScenarioRequest) (*models.Scenario, error)
	Update(ctx context.Context, id string, req dto.UpdateScenarioRequest) (*models.Scenario, error)
	Delete(ctx context.Context, id string) error
}

// ScenarioHandler exposes scenario CRUD endpoints.
type ScenarioHandler struct {
	service scenarioService
}

// NewScenarioHandler builds a new handler.
func NewScenarioHandler(service scenarioService) *ScenarioHandler {
	return &ScenarioHandler{service: service}
}

// List godoc
// @Summary List scenarios
// @Tags Scenarios
// @Produce json
// @Param term query string false "Filter by term label"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /scenarios [get]
func (h *ScenarioHandler) List(c *gin.Context) {
	filter := models.ScenarioFilter{
		TermLabel: c.Query("term"),
		Search:    c.Query("search"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	scenarios, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scenarios, pagination)
}

// Get godoc
// @Summary Get scenario by ID
// @Tags Scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scenarios/{id} [get]
func (h *ScenarioHandler) Get(c *gin.Context) {
	scenario, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scenario, nil)
}

// Create godoc
// @Summary Create scenario
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param payload body dto.CreateScenarioRequest true "Scenario payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /scenarios [post]
func (h *ScenarioHandler) Create(c *gin.Context) {
	var req dto.CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scenario payload"))
		return
	}
	scenario, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, scenario, nil)
}

// Update godoc
// @Summary Update scenario
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID"
// @Param payload body dto.UpdateScenarioRequest true "Scenario payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scenarios/{id} [put]
func (h *ScenarioHandler) Update(c *gin.Context) {
	var req dto.UpdateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scenario payload"))
		return
	}
	scenario, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scenario, nil)
}

// Delete godoc
// @Summary Delete scenario
// @Tags Scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scenarios/{id} [delete]
func (h *ScenarioHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func queryInt(c *gin.Context, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}
