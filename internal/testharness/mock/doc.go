// Package mock provides scripted supply implementations for testing.
//
// A shared Recorder captures the global order of supply requests across all
// supplies of a rail, so tests can assert strict sequencing. Individual
// supplies can be scripted to fail specific requests.
package mock
