package events

import (
	"context"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

// EventLogger drains a subscription into the structured log and keeps the
// reload counters current.
type EventLogger struct {
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewEventLogger(eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	go l.run()
}

func (l *EventLogger) Stop() {
	l.cancel()
	<-l.done
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"dataset":    event.Dataset,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	switch event.Type {
	case models.EventTypeDatasetReloaded:
		metrics.Get().IncReload(metrics.OutcomeSuccess)
	case models.EventTypeDatasetReloadFailed:
		metrics.Get().IncReload(metrics.OutcomeFailure)
	}
}
