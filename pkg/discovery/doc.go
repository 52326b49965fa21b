// Package discovery advertises a running railseq controller over mDNS.
//
// Bench monitoring tools find controllers by browsing for the
// _railseq._tcp service. The TXT records carry a coarse summary of the
// controller (rail count, enabled count) that tools can display without
// connecting; Update refreshes them as rails change state.
package discovery
