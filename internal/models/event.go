package models

import "time"

// SystemEvent is a single append-only audit log entry.
type SystemEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // PROBE_DISCOVERED | PROBE_OFFLINE | PROBE_RENAMED | PROBE_DELETED | SESSION_START | SESSION_STOP | TARGET_SET | SAFETY_RESET | RESCAN | MOCK_MODE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// Event types recorded by the monitor process.
const (
	EventProbeDiscovered = "PROBE_DISCOVERED"
	EventProbeOffline    = "PROBE_OFFLINE"
	EventProbeRenamed    = "PROBE_RENAMED"
	EventProbeDeleted    = "PROBE_DELETED"
	EventSessionStart    = "SESSION_START"
	EventSessionStop     = "SESSION_STOP"
	EventTargetSet       = "TARGET_SET"
	EventSafetyReset     = "SAFETY_RESET"
	EventRescan          = "RESCAN"
	EventMockMode        = "MOCK_MODE"
)
