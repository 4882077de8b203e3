// Package state holds the shared printer-connectivity snapshot written by
// the background poller and read by the UI.
package state
