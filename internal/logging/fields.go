package logging

import "log/slog"

// Common field names for consistent logging across the sink.
const (
	FieldService  = "service"
	FieldBackend  = "backend"
	FieldSvixID   = "svix_id"
	FieldEvent    = "event_type"
	FieldMethod   = "method"
	FieldPath     = "path"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldError    = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Backend returns a slog attribute for the store backend name.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// SvixID returns a slog attribute for the delivery identifier.
func SvixID(id string) slog.Attr {
	return slog.String(FieldSvixID, id)
}

// EventType returns a slog attribute for the event discriminant.
func EventType(t string) slog.Attr {
	return slog.String(FieldEvent, t)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
