// Package controller hosts composite rails as named, on-demand power
// resources.
//
// The controller is the framework side of railseq: it registers each
// configured rail as a sequencer-backed unit, serializes enable/disable
// calls per rail, and applies the configured initial-state policy at
// registration (boot-on, always-on, or restore of the persisted last
// state).
//
// Consumers request power with Acquire and give it back with Release.
// Requests are use-counted per rail: the underlying sequence runs only on
// the 0->1 acquire and the 1->0 release, so independent consumers can share
// a rail without tracking each other. Always-on rails refuse the final
// release.
//
// State transitions are reported through an optional event callback and,
// when a state store is configured, persisted after every change.
package controller
