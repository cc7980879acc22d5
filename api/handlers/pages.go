package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/bikeshare-dashboard/internal/charts"
	"github.com/OldStager01/bikeshare-dashboard/internal/dashboard"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
	"github.com/OldStager01/bikeshare-dashboard/pkg/validation"
)

const pageTitle = "Bike Sharing Dashboard"

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type option struct {
	Value    string
	Selected bool
}

type pageData struct {
	Title     string
	Info      models.DatasetInfo
	MinDate   string
	MaxDate   string
	Start     string
	End       string
	Weather   []option
	DayTypes  []option
	Error     string
	Dashboard *models.Dashboard
	query     string
}

// ChartsURL points a tab's frame at the chart page for the current selection.
func (p pageData) ChartsURL(tab string) template.URL {
	return template.URL("/charts?tab=" + tab + "&" + p.query)
}

// PageHandler serves the HTML dashboard and its chart frames.
type PageHandler struct {
	builder  *dashboard.Builder
	renderer *charts.Renderer
}

func NewPageHandler(builder *dashboard.Builder, renderer *charts.Renderer) *PageHandler {
	if renderer == nil {
		renderer = charts.NewRenderer()
	}
	return &PageHandler{builder: builder, renderer: renderer}
}

func (h *PageHandler) Index(c *gin.Context) {
	start := time.Now()
	data := pageData{Title: pageTitle}

	info, err := h.builder.Options()
	if err != nil {
		h.renderError(c, start, statusFor(err), data, err)
		return
	}
	data.Info = info
	data.MinDate = info.FirstDate.Format(models.DateLayout)
	data.MaxDate = info.LastDate.Format(models.DateLayout)

	var q validation.CriteriaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.renderError(c, start, http.StatusBadRequest, data.withQuery(q), err)
		return
	}

	criteria, err := h.builder.Resolve(q)
	if err != nil {
		h.renderError(c, start, statusFor(err), data.withQuery(q), err)
		return
	}

	d, err := h.builder.Build(c.Request.Context(), criteria)
	if err != nil {
		h.renderError(c, start, statusFor(err), data.withCriteria(criteria), err)
		return
	}

	data = data.withCriteria(criteria)
	data.Dashboard = d
	metrics.Get().ObserveRender("page", metrics.OutcomeSuccess, time.Since(start))
	c.HTML(http.StatusOK, "dashboard.html", data)
}

func (h *PageHandler) renderError(c *gin.Context, start time.Time, status int, data pageData, err error) {
	outcome := metrics.OutcomeFailure
	if status == http.StatusBadRequest {
		outcome = metrics.OutcomeInvalid
	} else {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Dashboard page failed")
	}
	metrics.Get().ObserveRender("page", outcome, time.Since(start))

	data.Error = err.Error()
	c.HTML(status, "dashboard.html", data)
}

// Charts renders the go-echarts page for one tab, selected with ?tab=.
func (h *PageHandler) Charts(c *gin.Context) {
	start := time.Now()

	d, status, err := buildFromQuery(c, h.builder)
	if err != nil {
		h.chartError(c, start, status, err)
		return
	}

	page, err := h.renderer.TabPage(d, c.Query("tab"))
	if err != nil {
		h.chartError(c, start, http.StatusBadRequest, err)
		return
	}

	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(c.Writer); err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to render charts")
		metrics.Get().ObserveRender("charts", metrics.OutcomeFailure, time.Since(start))
		return
	}
	metrics.Get().ObserveRender("charts", metrics.OutcomeSuccess, time.Since(start))
}

func (h *PageHandler) chartError(c *gin.Context, start time.Time, status int, err error) {
	outcome := metrics.OutcomeFailure
	if status == http.StatusBadRequest || errors.Is(err, charts.ErrUnknownTab) {
		outcome = metrics.OutcomeInvalid
	}
	metrics.Get().ObserveRender("charts", outcome, time.Since(start))
	c.String(status, err.Error())
}

// withQuery echoes the raw form back after a failed submit.
func (p pageData) withQuery(q validation.CriteriaQuery) pageData {
	p.Start, p.End = q.Start, q.End
	p.Weather = weatherOptions(p.Info.Weather, func(w models.WeatherCategory) bool {
		return containsFold(q.Weather, string(w))
	})
	p.DayTypes = dayTypeOptions(p.Info.DayTypes, func(d models.DayType) bool {
		return containsFold(q.DayTypes, string(d))
	})
	return p
}

func (p pageData) withCriteria(c models.FilterCriteria) pageData {
	p.Start = c.Start.Format(models.DateLayout)
	p.End = c.End.Format(models.DateLayout)
	p.Weather = weatherOptions(p.Info.Weather, c.AcceptsWeather)
	p.DayTypes = dayTypeOptions(p.Info.DayTypes, c.AcceptsDayType)
	p.query = validation.Encode(c).Encode()
	return p
}

// weatherOptions offers only the categories present in the loaded data.
func weatherOptions(present []models.WeatherCategory, selected func(models.WeatherCategory) bool) []option {
	out := make([]option, 0, len(present))
	for _, w := range present {
		out = append(out, option{Value: string(w), Selected: selected(w)})
	}
	return out
}

func dayTypeOptions(present []models.DayType, selected func(models.DayType) bool) []option {
	out := make([]option, 0, len(present))
	for _, d := range present {
		out = append(out, option{Value: string(d), Selected: selected(d)})
	}
	return out
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
