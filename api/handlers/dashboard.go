package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/filter"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
	"github.com/OldStager01/bikeshare-dashboard/pkg/validation"
)

// DashboardHandler serves the dashboard as JSON, one section per route.
// Every request recomputes the whole pipeline.
type DashboardHandler struct {
	builder *dashboard.Builder
}

func NewDashboardHandler(builder *dashboard.Builder) *DashboardHandler {
	return &DashboardHandler{builder: builder}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// build resolves the query and runs the pipeline. On failure the response
// has been written and nil is returned.
func (h *DashboardHandler) build(c *gin.Context, endpoint string) *models.Dashboard {
	start := time.Now()

	d, status, err := buildFromQuery(c, h.builder)
	if err != nil {
		outcome := metrics.OutcomeFailure
		if status == http.StatusBadRequest {
			outcome = metrics.OutcomeInvalid
		}
		metrics.Get().ObserveRender(endpoint, outcome, time.Since(start))
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return nil
	}

	metrics.Get().ObserveRender(endpoint, metrics.OutcomeSuccess, time.Since(start))
	return d
}

// buildFromQuery returns the dashboard, or the status code and error to
// report.
func buildFromQuery(c *gin.Context, b *dashboard.Builder) (*models.Dashboard, int, error) {
	var q validation.CriteriaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return nil, http.StatusBadRequest, err
	}

	criteria, err := b.Resolve(q)
	if err != nil {
		return nil, statusFor(err), err
	}

	d, err := b.Build(c.Request.Context(), criteria)
	if err != nil {
		return nil, statusFor(err), err
	}
	return d, http.StatusOK, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalidInput), errors.Is(err, filter.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Dashboard godoc
// @Summary Get the full dashboard
// @Description Filter the dataset and compute summary, charts, segments and map in one response
// @Tags Dashboard
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} models.Dashboard "Dashboard"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	if d := h.build(c, "dashboard"); d != nil {
		c.JSON(http.StatusOK, d)
	}
}

type SummaryResponse struct {
	Criteria models.FilterCriteria `json:"criteria"`
	Summary  models.Summary        `json:"summary"`
}

// Summary godoc
// @Summary Get summary metrics
// @Description Total rides, average daily rides and peak hour for the filtered records
// @Tags Summary
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} SummaryResponse "Summary metrics"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if d := h.build(c, "summary"); d != nil {
		c.JSON(http.StatusOK, SummaryResponse{Criteria: d.Criteria, Summary: d.Summary})
	}
}

// WeatherChart godoc
// @Summary Get weather impact bars
// @Description Total rides per weather category for the filtered records
// @Tags Charts
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} map[string]interface{} "Weather bars"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /charts/weather [get]
func (h *DashboardHandler) WeatherChart(c *gin.Context) {
	if d := h.build(c, "weather"); d != nil {
		c.JSON(http.StatusOK, gin.H{"criteria": d.Criteria, "bars": nonNil(d.WeatherImpact)})
	}
}

// DayTypeChart godoc
// @Summary Get day type distribution
// @Description Box plot statistics of daily rides per day type
// @Tags Charts
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} map[string]interface{} "Day type boxes"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /charts/daytype [get]
func (h *DashboardHandler) DayTypeChart(c *gin.Context) {
	if d := h.build(c, "daytype"); d != nil {
		c.JSON(http.StatusOK, gin.H{"criteria": d.Criteria, "boxes": nonNil(d.DayTypeSpread)})
	}
}

// RFM godoc
// @Summary Get RFM segmentation
// @Description Cluster days by recency, frequency and monetary value
// @Tags Segments
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} models.Section[models.RFMSegmentation] "RFM segmentation"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /segments/rfm [get]
func (h *DashboardHandler) RFM(c *gin.Context) {
	if d := h.build(c, "rfm"); d != nil {
		c.JSON(http.StatusOK, d.RFM)
	}
}

// Hourly godoc
// @Summary Get hourly usage clusters
// @Description Cluster hours of the day by usage volume
// @Tags Segments
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} models.Section[models.HourlySegmentation] "Hourly clusters"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /segments/hourly [get]
func (h *DashboardHandler) Hourly(c *gin.Context) {
	if d := h.build(c, "hourly"); d != nil {
		c.JSON(http.StatusOK, d.HourlyClusters)
	}
}

// Map godoc
// @Summary Get station heatmap
// @Description Station points weighted by rides for the filtered records
// @Tags Map
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param weather query []string false "Weather categories" collectionFormat(multi)
// @Param day_type query []string false "Day types" collectionFormat(multi)
// @Param submitted query string false "Set when the filter form was submitted"
// @Success 200 {object} models.HeatmapView "Heatmap view"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /map [get]
func (h *DashboardHandler) Map(c *gin.Context) {
	if d := h.build(c, "map"); d != nil {
		c.JSON(http.StatusOK, d.Map)
	}
}

// Options godoc
// @Summary Get filter options
// @Description Dataset date range plus the weather and day type values present in the data
// @Tags Dashboard
// @Produce json
// @Success 200 {object} map[string]interface{} "Filter options"
// @Failure 503 {object} ErrorResponse "Dataset unavailable"
// @Router /options [get]
func (h *DashboardHandler) Options(c *gin.Context) {
	info, err := h.builder.Options()
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dataset":       info,
		"weather":       models.AllWeather,
		"day_types":     models.AllDayTypes,
		"present":       gin.H{"weather": info.Weather, "day_types": info.DayTypes},
		"date_layout":   "YYYY-MM-DD",
		"default_start": info.FirstDate.Format(models.DateLayout),
		"default_end":   info.LastDate.Format(models.DateLayout),
	})
}

// nonNil keeps empty charts as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
