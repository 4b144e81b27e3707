// Package trace owns the shared data model for multi-channel seismic
// records: the per-channel sample matrix, the acquisition header, the
// multi-channel gather container, and the reconciliation of per-channel
// headers into one canonical header.
//
// Dependency rule: trace depends only on the standard library; every
// other seis package may depend on it.
package trace
