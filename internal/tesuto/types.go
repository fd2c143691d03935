package tesuto

import "time"

// Emulation actions accepted by the API. The UI labels these Start, Stop,
// and Delete respectively; "stop" tears the emulation down.
const (
	ActionStart   = "start"
	ActionSuspend = "suspend"
	ActionStop    = "stop"
)

// Emulation represents a Tesuto network emulation
type Emulation struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Status string `json:"status"`
	EndAt  int64  `json:"end_at"` // Epoch seconds, 0 when no timer is set
}

// EndingTime returns the scheduled end as UTC wall-clock time, or the zero
// time when the emulation has no timer.
func (e Emulation) EndingTime() time.Time {
	if e.EndAt == 0 {
		return time.Time{}
	}
	return time.Unix(e.EndAt, 0).UTC()
}

// Device represents a virtual device within an emulation
type Device struct {
	ID          string `json:"id"`
	EmulationID string `json:"emulation_id"`
	Name        string `json:"name"`
	VendorName  string `json:"vendor_name"`
	ModelName   string `json:"model_name"`
	IsEnabled   bool   `json:"is_enabled"`
}

// emulationUpdate is the PUT body for emulation state changes
type emulationUpdate struct {
	Action string `json:"action"`
	EndAt  int64  `json:"end_at,omitempty"` // Epoch seconds
}

// deviceUpdate is the PUT body for device state changes
type deviceUpdate struct {
	IsEnabled bool `json:"is_enabled"`
}

// listResponse wraps collection payloads returned by the API
type listResponse[T any] struct {
	Data []T `json:"data"`
}

// objectResponse wraps single-object payloads returned by the API
type objectResponse[T any] struct {
	Data T `json:"data"`
}

// APIError represents an error payload from the API
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
