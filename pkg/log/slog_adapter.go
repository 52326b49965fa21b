package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes power events to an slog.Logger.
// Useful for development when you want to see sequencing events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("rail", event.Rail),
		slog.String("category", event.Category.String()),
	}

	// Add type-specific attributes
	switch {
	case event.Step != nil:
		attrs = append(attrs,
			slog.Int("index", event.Step.Index),
			slog.String("supply", event.Step.Supply),
			slog.String("action", event.Step.Action.String()),
		)
		if event.Step.Action == ActionSetVoltage {
			attrs = append(attrs,
				slog.Uint64("min_uv", uint64(event.Step.MinMicrovolts)),
				slog.Uint64("max_uv", uint64(event.Step.MaxMicrovolts)),
			)
		}
		if event.Step.Delay > 0 {
			attrs = append(attrs, slog.Duration("delay", event.Step.Delay))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.Int("index", event.Error.Index),
			slog.String("supply", event.Error.Supply),
			slog.String("action", event.Error.Action.String()),
			slog.String("error_msg", event.Error.Message),
			slog.Bool("fatal", event.Error.Fatal),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "power", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
