// Package persistence provides runtime state persistence for the railseq
// controller.
//
// This package handles the JSON serialization of the last-known rail states
// so the controller's restore policy can re-apply them after a restart.
// Rail configuration is handled separately by the config package.
package persistence
