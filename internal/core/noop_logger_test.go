package core

import (
	"testing"
)

// TestNoopLoggerDoesNotPanic exercises every noop logger method.
func TestNoopLoggerDoesNotPanic(_ *testing.T) {
	logger := noopLogger{}

	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
}
