// Package server exposes practice items, sessions, feedback and history over
// HTTP and serves the embedded practice widget.
//
// Routes are registered on a chi router. Errors are returned as
// {"error":{"code":...,"message":...}} with the status derived from the
// sentinel error that caused them.
package server
