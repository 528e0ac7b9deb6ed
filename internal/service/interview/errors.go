package interview

import "errors"

// Errors surfaced by the orchestrator. The transport maps these to short
// client-facing error events; internal causes stay in the logs.
var (
	// ErrSessionNotFound is returned for an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionBusy is returned when a turn request arrives while another
	// turn is still streaming for the same session.
	ErrSessionBusy = errors.New("a turn is already in flight for this session")

	// ErrUpstreamTimeout is returned when a provider call exceeded its
	// deadline mid-turn.
	ErrUpstreamTimeout = errors.New("upstream call timed out")

	// ErrUpstreamFailure is returned when a provider call failed mid-turn.
	ErrUpstreamFailure = errors.New("upstream call failed")

	// ErrReportNotReady is returned when a report is requested before the
	// session has been finalized.
	ErrReportNotReady = errors.New("report not ready")
)
