package logger

import "log/slog"

// Shared attribute constructors keep key names consistent across packages.

// Error records a failure under the "error" key; nil yields an empty value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider names the contacts provider an operation targets.
func Provider(id string) slog.Attr {
	return slog.String("provider", id)
}
