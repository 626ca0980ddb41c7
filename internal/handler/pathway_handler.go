package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/dto"
	"github.com/coursedeck/coursedeck-api/internal/models"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type pathwayService interface {
	List(ctx context.Context, filter models.PathwayFilter) ([]models.Pathway, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Pathway, error)
	Create(ctx context.Context, req dto.CreatePathwayRequest) (*models.Pathway, error)
	Update(ctx context.Context, id string, req dto.UpdatePathwayRequest) (*models.Pathway, error)
	Delete(ctx context.Context, id string) error
}

// PathwayHandler exposes pathway registry endpoints.
type PathwayHandler struct {
	service pathwayService
}

// NewPathwayHandler builds a new handler.
func NewPathwayHandler(service pathwayService) *PathwayHandler {
	return &PathwayHandler{service: service}
}

// List godoc
// @Summary List pathways
// @Tags Pathways
// @Produce json
// @Param search query string false "Search by name"
// @Success 200 {object} response.Envelope
// @Router /pathways [get]
func (h *PathwayHandler) List(c *gin.Context) {
	filter := models.PathwayFilter{
		Search:    c.Query("search"),
		Page:      queryInt(c, "page"),
		PageSize:  queryInt(c, "pageSize"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	pathways, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pathways, pagination)
}

// Get godoc
// @Summary Get pathway by ID
// @Tags Pathways
// @Produce json
// @Param id path string true "Pathway ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pathways/{id} [get]
func (h *PathwayHandler) Get(c *gin.Context) {
	pathway, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pathway, nil)
}

// Create godoc
// @Summary Create pathway
// @Tags Pathways
// @Accept json
// @Produce json
// @Param payload body dto.CreatePathwayRequest true "Pathway payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /pathways [post]
func (h *PathwayHandler) Create(c *gin.Context) {
	var req dto.CreatePathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pathway payload"))
		return
	}
	pathway, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, pathway, nil)
}

// Update godoc
// @Summary Update pathway
// @Tags Pathways
// @Accept json
// @Produce json
// @Param id path string true "Pathway ID"
// @Param payload body dto.UpdatePathwayRequest true "Pathway payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pathways/{id} [put]
func (h *PathwayHandler) Update(c *gin.Context) {
	var req dto.UpdatePathwayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid pathway payload"))
		return
	}
	pathway, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pathway, nil)
}

// Delete godoc
// @Summary Delete pathway
// @Tags Pathways
// @Produce json
// @Param id path string true "Pathway ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pathways/{id} [delete]
func (h *PathwayHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
