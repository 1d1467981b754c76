// Package server runs the storefront HTTP server together with the
// background workers it depends on.
//
// It owns the process lifecycle: startup, signal handling, and graceful
// shutdown of the listener followed by draining of the workers.
package server
