// Package signal implements the per-channel conditioning stages of the
// preprocessing pipeline: corner-frequency filtering and direct-arrival
// muting. Every operation works on one channel's sample matrix in place,
// one receiver column at a time, parameterized by the shared header.
package signal
