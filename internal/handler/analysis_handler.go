package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/coursedeck/coursedeck-api/internal/analysis"
	appErrors "github.com/coursedeck/coursedeck-api/pkg/errors"
	"github.com/coursedeck/coursedeck-api/pkg/response"
)

type analysisService interface {
	Run(ctx context.Context, scenarioID string, bufferMinutes *int) (*analysis.Report, error)
}

// AnalysisHandler exposes the scenario conflict analysis endpoint.
type AnalysisHandler struct {
	service analysisService
}

// NewAnalysisHandler builds a new handler.
func NewAnalysisHandler(service analysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// Analyze godoc
// @Summary Run conflict analysis for a scenario
// @Description Computes instructor and room double-bookings, lab turnaround buffer violations, and pathway feasibility issues
// @Tags Analysis
// @Produce json
// @Param id path string true "Scenario ID"
// @Param bufferMinutes query int false "Turnaround buffer in minutes (default from server config)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scenarios/{id}/analysis [get]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var bufferMinutes *int
	if raw := c.Query("bufferMinutes"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "bufferMinutes must be an integer"))
			return
		}
		bufferMinutes = &value
	}

	report, err := h.service.Run(c.Request.Context(), c.Param("id"), bufferMinutes)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
