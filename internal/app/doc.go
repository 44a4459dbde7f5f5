// Package app is the composition root of the reporter. It builds the
// report pipeline from configuration, guards against overlapping runs,
// records run history, and exposes prometheus metrics for serve mode.
package app
