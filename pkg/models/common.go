package models

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the canonical textual form of a calendar date.
const DateLayout = "2006-01-02"

// NoData is shown in place of a metric that cannot be computed.
const NoData = "no data"

// NewUUID generates a new UUID string
func NewUUID() string {
	return uuid.New().String()
}

// TruncateDay drops the clock part of t, keeping its calendar date in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
