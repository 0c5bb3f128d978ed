package logging

import (
	"maps"

	"github.com/goliatone/go-feecting/pkg/interfaces"
)

// WithFields attaches fields when the logger implements FieldsLogger and
// returns it unchanged otherwise. The map is copied before use.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// OrNoOp returns logger, or NoOp when logger is nil.
func OrNoOp(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return NoOp()
	}
	return logger
}
