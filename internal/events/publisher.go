package events

import (
	"fmt"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	if p == nil {
		return nil
	}
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p == nil || p.bus == nil {
		return
	}
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) DatasetLoaded(dataset string, info models.DatasetInfo) {
	msg := fmt.Sprintf("Dataset loaded: %d daily rows, %d hourly rows", info.DailyRows, info.HourlyRows)
	event := models.NewEvent(models.EventTypeDatasetLoaded, dataset, msg).
		WithData(info)
	if info.UnknownRows > 0 {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}

func (p *Publisher) DatasetReloaded(dataset, path string, info models.DatasetInfo) {
	msg := "Dataset reloaded after change to " + path
	event := models.NewEvent(models.EventTypeDatasetReloaded, dataset, msg).
		WithData(info)
	p.publish(event)
}

func (p *Publisher) DatasetReloadFailed(dataset, path string, err error) {
	msg := "Dataset reload failed: " + path
	event := models.NewEvent(models.EventTypeDatasetReloadFailed, dataset, msg).
		WithSeverity(models.SeverityCritical).
		WithData(map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	p.publish(event)
}

func (p *Publisher) DashboardRendered(dataset string, d *models.Dashboard) {
	event := models.NewEvent(models.EventTypeDashboardRendered, dataset, "Dashboard rendered").
		WithData(map[string]interface{}{
			"rows":    d.Summary.Rows,
			"total":   d.Summary.TotalText,
			"average": d.Summary.AverageText,
			"start":   d.Criteria.Start.Format(models.DateLayout),
			"end":     d.Criteria.End.Format(models.DateLayout),
		})
	if !d.Summary.HasData() {
		event.WithSeverity(models.SeverityWarning)
	}
	p.publish(event)
}
