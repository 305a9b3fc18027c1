// Package app wires the grader web server together: configuration,
// logging, the gradebook service, the export sink, the Chi router with
// its middleware stack, and graceful shutdown.
package app
