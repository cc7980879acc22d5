package charts

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var clusterPalette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452", "#9a60b4"}

func clusterColor(c int) string {
	return clusterPalette[c%len(clusterPalette)]
}

// Renderer turns computed chart data into go-echarts objects.
type Renderer struct {
	Width  string
	Height string
}

func NewRenderer() *Renderer {
	return &Renderer{Width: "640px", Height: "380px"}
}

func (r *Renderer) init(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{Width: r.Width, Height: r.Height}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
	}
}

func (r *Renderer) WeatherBar(totals []models.CategoryTotal) *charts.Bar {
	labels := make([]string, 0, len(totals))
	data := make([]opts.BarData, 0, len(totals))
	for _, t := range totals {
		labels = append(labels, string(t.Category))
		data = append(data, opts.BarData{Value: t.Total})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.init("Weather Impact on Rentals", "total rides per weather condition")...)
	bar.SetXAxis(labels).AddSeries("Total rides", data)
	return bar
}

// DayTypeBox draws the whisker range, not min and max, so outliers sit
// outside the box the way a classic box plot shows them.
func (r *Renderer) DayTypeBox(stats []models.BoxStats) *charts.BoxPlot {
	labels := make([]string, 0, len(stats))
	data := make([]opts.BoxPlotData, 0, len(stats))
	var outliers []opts.ScatterData
	for _, s := range stats {
		labels = append(labels, string(s.DayType))
		data = append(data, opts.BoxPlotData{
			Name:  string(s.DayType),
			Value: []float64{s.LowerWhisker, s.Q1, s.Median, s.Q3, s.UpperWhisker},
		})
		for _, v := range s.Outliers {
			outliers = append(outliers, opts.ScatterData{
				Name:       string(s.DayType),
				Value:      []interface{}{string(s.DayType), v},
				SymbolSize: 8,
			})
		}
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(r.init("Weekday vs Weekend Rentals", "daily ride count distribution")...)
	box.SetXAxis(labels).AddSeries("Daily rides", data)

	if len(outliers) > 0 {
		scatter := charts.NewScatter()
		scatter.SetXAxis(labels).AddSeries("Outliers", outliers)
		box.Overlap(scatter)
	}
	return box
}

func (r *Renderer) RFMBar(seg *models.RFMSegmentation) *charts.Bar {
	var labels []string
	var data []opts.BarData
	if seg != nil {
		for _, ct := range seg.MonetaryByCluster {
			labels = append(labels, "Cluster "+strconv.Itoa(ct.Cluster))
			data = append(data, opts.BarData{
				Value:     ct.Total,
				ItemStyle: &opts.ItemStyle{Color: clusterColor(ct.Cluster)},
			})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.init("RFM Segmentation", "total rides per cluster")...)
	bar.SetXAxis(labels).AddSeries("Monetary", data)
	return bar
}

func (r *Renderer) HourlyBar(seg *models.HourlySegmentation) *charts.Bar {
	var labels []string
	var data []opts.BarData
	if seg != nil {
		for _, b := range seg.Buckets {
			labels = append(labels, fmt.Sprintf("%02d", b.Hour))
			data = append(data, opts.BarData{
				Name:      "Cluster " + strconv.Itoa(b.Cluster),
				Value:     b.TotalRides,
				ItemStyle: &opts.ItemStyle{Color: clusterColor(b.Cluster)},
			})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(r.init("Hourly Usage Clusters", "total rides per hour, colored by cluster")...)
	bar.SetXAxis(labels).AddSeries("Total rides", data)
	return bar
}

// Chart groups shown together on one dashboard tab.
const (
	TabAll      = ""
	TabWeather  = "weather"
	TabDayType  = "daytype"
	TabAdvanced = "advanced"
)

var ErrUnknownTab = errors.New("unknown chart tab")

// Page lays out every chart of a dashboard.
func (r *Renderer) Page(d *models.Dashboard) *components.Page {
	page, _ := r.TabPage(d, TabAll)
	return page
}

// TabPage lays out the charts of one tab. Segmentation charts are omitted
// when their section carries a notice instead of data.
func (r *Renderer) TabPage(d *models.Dashboard, tab string) (*components.Page, error) {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.SetPageTitle("Bike Sharing Charts")

	switch tab {
	case TabAll, TabWeather, TabDayType, TabAdvanced:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}

	if tab == TabAll || tab == TabWeather {
		page.AddCharts(r.WeatherBar(d.WeatherImpact))
	}
	if tab == TabAll || tab == TabDayType {
		page.AddCharts(r.DayTypeBox(d.DayTypeSpread))
	}
	if tab == TabAll || tab == TabAdvanced {
		if d.RFM.Data != nil {
			page.AddCharts(r.RFMBar(d.RFM.Data))
		}
		if d.HourlyClusters.Data != nil {
			page.AddCharts(r.HourlyBar(d.HourlyClusters.Data))
		}
	}
	return page, nil
}

func (r *Renderer) RenderPage(w io.Writer, d *models.Dashboard) error {
	return r.RenderTab(w, d, TabAll)
}

func (r *Renderer) RenderTab(w io.Writer, d *models.Dashboard, tab string) error {
	page, err := r.TabPage(d, tab)
	if err != nil {
		return err
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return nil
}
