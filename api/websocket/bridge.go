package websocket

import (
	"context"

	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

// EventBridge forwards dataset events to WebSocket clients.
type EventBridge struct {
	hub        *Hub
	eventsChan <-chan *models.Event
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewEventBridge(hub *Hub, eventsChan <-chan *models.Event) *EventBridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventBridge{
		hub:        hub,
		eventsChan: eventsChan,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (b *EventBridge) Start() {
	go b.run()
	logger.Info("WebSocket event bridge started")
}

func (b *EventBridge) Stop() {
	b.cancel()
	logger.Info("WebSocket event bridge stopped")
}

func (b *EventBridge) run() {
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.eventsChan:
			if !ok {
				logger.Info("Event channel closed, stopping bridge")
				return
			}
			b.forwardEvent(event)
		}
	}
}

func (b *EventBridge) forwardEvent(event *models.Event) {
	msg := ConvertEvent(event)
	if msg == nil {
		return
	}
	b.hub.BroadcastToDataset(event.Dataset, msg.JSON())
}

// ConvertEvent maps an internal event to the client message, or nil for
// events clients do not receive.
func ConvertEvent(event *models.Event) *OutgoingMessage {
	var msg *OutgoingMessage
	switch event.Type {
	case models.EventTypeDatasetLoaded, models.EventTypeDatasetReloaded:
		info, ok := event.Data.(models.DatasetInfo)
		if !ok {
			return nil
		}
		msg = NewMessage(MessageTypeDatasetUpdate, event.Dataset, NewDatasetUpdate(info))
	case models.EventTypeDatasetReloadFailed:
		msg = NewMessage(MessageTypeAlert, event.Dataset, event.Data)
	default:
		// dashboard renders are per request and not pushed
		return nil
	}

	msg.Timestamp = event.Timestamp
	msg.Severity = string(event.Severity)
	msg.Message = event.Message
	return msg
}
