// Package app wires configuration, the printbox client, the status poller,
// and the UI together into the running printdeck application.
package app
