package models

import "time"

// Probe status values.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Probe is one tracked temperature sensor.
type Probe struct {
	ID           string    `json:"id"`            // hex OneWire address, 8+ chars
	Name         string    `json:"name"`          // operator-visible, mutable
	TemperatureC float64   `json:"temperature_c"` // last reported reading
	Status       string    `json:"status"`        // online | offline
	LastUpdate   time.Time `json:"last_update"`   // refreshed only by a valid reading
}

// Diagnostic is one entry of the bounded serial-monitor buffer.
type Diagnostic struct {
	Timestamp time.Time `json:"timestamp"`
	Severity  string    `json:"severity"` // temperature | info | warning | error | unknown
	Text      string    `json:"text"`
}
