// Package operations provides the report run framework: the step
// abstraction, run state tracking, the step registry, and the runner
// that executes registered steps strictly in order.
//
// A run walks four steps: load parses the sales data file, render
// produces the HTML report and chart, convert prints the HTML to PDF,
// and send emails the result. A step failure fails the run and every
// step after it is skipped. Failures carry an ErrorKind so callers can
// tell a missing file from a malformed one without string matching.
package operations
