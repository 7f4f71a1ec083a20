package delivery

import (
	"context"
	"log/slog"
	"strings"
)

// LogDeliverer writes delivery notices to the log. It stands in for a real
// SMS or email channel in development; the code itself is never logged.
type LogDeliverer struct {
	logger *slog.Logger
}

// NewLogDeliverer creates a new LogDeliverer.
func NewLogDeliverer(logger *slog.Logger) *LogDeliverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDeliverer{logger: logger}
}

// Deliver records that a code was sent to the destination.
func (d *LogDeliverer) Deliver(ctx context.Context, code, destination string) error {
	d.logger.Info("authorization code delivered",
		slog.String("destination", maskDestination(destination)),
		slog.Int("code_length", len(code)))
	return nil
}

// maskDestination hides all but the last three characters.
func maskDestination(destination string) string {
	if len(destination) <= 3 {
		return destination
	}
	return strings.Repeat("*", len(destination)-3) + destination[len(destination)-3:]
}
