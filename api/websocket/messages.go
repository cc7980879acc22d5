package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

type MessageType string

const (
	MessageTypeDatasetUpdate MessageType = "dataset_update"
	MessageTypeAlert         MessageType = "alert"
	MessageTypeSubscription  MessageType = "subscription_update"
)

type OutgoingMessage struct {
	Type      MessageType `json:"type"`
	Dataset   string      `json:"dataset,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Severity  string      `json:"severity,omitempty"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, dataset string, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Dataset:   dataset,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// DatasetUpdateData tells clients what the reloaded dataset now spans.
type DatasetUpdateData struct {
	DailyRows  int    `json:"daily_rows"`
	HourlyRows int    `json:"hourly_rows"`
	FirstDate  string `json:"first_date"`
	LastDate   string `json:"last_date"`
	HasGeo     bool   `json:"has_geo"`
}

func NewDatasetUpdate(info models.DatasetInfo) DatasetUpdateData {
	return DatasetUpdateData{
		DailyRows:  info.DailyRows,
		HourlyRows: info.HourlyRows,
		FirstDate:  info.FirstDate.Format(models.DateLayout),
		LastDate:   info.LastDate.Format(models.DateLayout),
		HasGeo:     info.HasGeo,
	}
}
