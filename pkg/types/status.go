// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the connectedpapers client:
// the job status enumeration, the per-poll response envelope, the citation graph
// schema, and client configuration.
package types

// Status is the job state reported by the graph-building service.
type Status string

const (
	StatusQueued        Status = "QUEUED"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusOldGraph      Status = "OLD_GRAPH"
	StatusFreshGraph    Status = "FRESH_GRAPH"
	StatusBadID         Status = "BAD_ID"
	StatusError         Status = "ERROR"
	StatusNotInDB       Status = "NOT_IN_DB"
	StatusBadToken      Status = "BAD_TOKEN"
	StatusBadRequest    Status = "BAD_REQUEST"
	StatusOutOfRequests Status = "OUT_OF_REQUESTS"
	StatusOverloaded    Status = "OVERLOADED"
)

// terminalStatuses are the states after which the service will not change its answer.
var terminalStatuses = map[Status]bool{
	StatusFreshGraph:    true,
	StatusBadID:         true,
	StatusError:         true,
	StatusNotInDB:       true,
	StatusBadToken:      true,
	StatusBadRequest:    true,
	StatusOutOfRequests: true,
}

var knownStatuses = map[Status]bool{
	StatusQueued:     true,
	StatusInProgress: true,
	StatusOldGraph:   true,
	StatusOverloaded: true,
}

func init() {
	for s := range terminalStatuses {
		knownStatuses[s] = true
	}
}

// ClassifyStatus maps a raw status token to a known Status. Unknown tokens,
// including the empty string, classify as StatusError.
func ClassifyStatus(raw string) Status {
	s := Status(raw)
	if knownStatuses[s] {
		return s
	}
	return StatusError
}

// Terminal reports whether s is in the terminal set.
func (s Status) Terminal() bool {
	return terminalStatuses[s]
}

// String returns the wire token.
func (s Status) String() string { return string(s) }
