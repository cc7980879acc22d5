package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/internal/charts"
	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/filter"
	"github.com/OldStager01/bikeshare-dashboard/internal/geo"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/internal/segment"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/internal/summary"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
	"github.com/OldStager01/bikeshare-dashboard/pkg/validation"
)

const (
	StageFilter  = "filter"
	StageSummary = "summary"
	StageCharts  = "charts"
	StageRFM     = "rfm"
	StageHourly  = "hourly"
	StageGeo     = "geo"
)

// Builder recomputes the whole dashboard for one set of criteria. Nothing is
// cached between builds.
type Builder struct {
	store     *session.Store
	km        segment.KMeans
	publisher *events.Publisher
	metrics   *metrics.Metrics
}

func NewBuilder(store *session.Store, km segment.KMeans, publisher *events.Publisher) *Builder {
	if km.K <= 0 {
		km = segment.DefaultKMeans()
	}
	return &Builder{
		store:     store,
		km:        km,
		publisher: publisher,
		metrics:   metrics.Get(),
	}
}

// Options describes the loaded dataset and what the sidebar can offer.
func (b *Builder) Options() (models.DatasetInfo, error) {
	s, _, err := b.store.Tables()
	if err != nil {
		return models.DatasetInfo{}, err
	}
	return s.Info(), nil
}

// DefaultCriteria is the selection used before the user has chosen anything.
func (b *Builder) DefaultCriteria() (models.FilterCriteria, error) {
	_, t, err := b.store.Tables()
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return filter.DefaultCriteria(t.Daily), nil
}

// Resolve validates a raw query against the current dataset defaults.
func (b *Builder) Resolve(q validation.CriteriaQuery) (models.FilterCriteria, error) {
	defaults, err := b.DefaultCriteria()
	if err != nil {
		return models.FilterCriteria{}, err
	}
	return validation.Criteria(q, defaults)
}

// Build runs filter, summary, charts, segmentation and map in order. An
// invalid range stops the build with filter.ErrInvalidRange. Segmentation
// failures turn into section notices.
func (b *Builder) Build(ctx context.Context, criteria models.FilterCriteria) (*models.Dashboard, error) {
	s, t, err := b.store.Tables()
	if err != nil {
		return nil, fmt.Errorf("dataset unavailable: %w", err)
	}

	var view models.FilteredView
	err = b.stage(StageFilter, func() error {
		view, err = filter.Apply(t.Daily, criteria)
		return err
	})
	if err != nil {
		return nil, err
	}
	b.metrics.ObserveFilteredRows(view.Len())

	d := &models.Dashboard{
		Criteria:    criteria,
		GeneratedAt: time.Now(),
	}

	_ = b.stage(StageSummary, func() error {
		d.Summary = summary.Summarize(view)
		return nil
	})
	_ = b.stage(StageCharts, func() error {
		d.WeatherImpact = charts.WeatherImpact(view)
		d.DayTypeSpread = charts.DayTypeDistribution(view)
		return nil
	})
	_ = b.stage(StageRFM, func() error {
		seg, err := segment.RFM(t.Daily, b.km)
		d.RFM = section(ctx, StageRFM, seg, err, b.km.K)
		return nil
	})
	_ = b.stage(StageHourly, func() error {
		seg, err := segment.Hourly(t.Hourly, b.km)
		d.HourlyClusters = section(ctx, StageHourly, seg, err, b.km.K)
		return nil
	})
	_ = b.stage(StageGeo, func() error {
		d.Map = geo.Heatmap(t.Hourly, t.HasGeo)
		return nil
	})

	b.publisher.WithTraceID(logger.TraceIDFromContext(ctx)).DashboardRendered(s.Name(), d)
	return d, nil
}

func (b *Builder) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	b.metrics.ObserveStage(name, time.Since(start))
	return err
}

func section[T any](ctx context.Context, name string, data *T, err error, k int) models.Section[T] {
	if err == nil {
		return models.Section[T]{Data: data}
	}

	metrics.Get().IncSegmentNotice(name)
	logger.FromContext(ctx).WithError(err).Warnf("%s segmentation skipped", name)
	if errors.Is(err, segment.ErrTooFewPoints) {
		return models.Section[T]{Notice: fmt.Sprintf("not enough data to form %d clusters", k)}
	}
	return models.Section[T]{Notice: "segmentation could not be computed"}
}
