package models

import "time"

// ControllerStatus is the controller's externally visible projection,
// republished every control cycle through the shared-state channel.
// TemperatureC is nil while the sensor is unreadable.
type ControllerStatus struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC *float64  `json:"temperature_c"`
	RelayState   bool      `json:"relay_state"`
	TargetTemp   float64   `json:"target_temp"`
	SafetyStop   bool      `json:"safety_stop,omitempty"`
	Fault        string    `json:"fault,omitempty"` // SENSOR_FAULT while under-range, empty otherwise
	PIDOutput    float64   `json:"pid_output,omitempty"`
}

// TargetRequest is the document written by the operator interface and
// polled by the controller. Whole-document, last writer wins.
type TargetRequest struct {
	TargetTemp *float64 `json:"target_temp"`
	Reset      bool     `json:"reset,omitempty"` // acknowledge a safety stop
}
