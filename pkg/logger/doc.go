// Package logger builds configured slog loggers and shared attribute
// helpers. Services in this module accept a *slog.Logger via functional
// options and discard logs by default; this package is how an application
// wires a real one in.
package logger
