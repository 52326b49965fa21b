// Package log provides structured power-event capture for railseq.
//
// This package defines the Logger interface and Event types for recording
// every action the controller takes on a rail: per-supply sequencing steps,
// rail state transitions, and step failures. It is separate from operational
// logging (slog) - event capture provides a complete machine-readable trace
// of power sequencing for debugging and post-mortem analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	capture := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	capture, _ := log.NewFileLogger("/var/log/railseq/raild.plog")
//
//	// Both: use MultiLogger
//	capture := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Each Event carries the rail name, a run ID correlating all events of one
// enable/disable run, and one of:
//   - Step: a sequencing action against one supply (StepEvent)
//   - StateChange: a rail state transition (StateChangeEvent)
//   - Error: a step failure (ErrorEventData)
//
// # File Format
//
// Capture files use CBOR encoding with .plog extension. The Reader type
// provides streaming reads with filtering.
package log
