// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GraphResponse is the envelope produced for each poll of the graph job.
type GraphResponse struct {
	// Status is the classified job state.
	Status Status `json:"status" yaml:"status"`

	// GraphJSON is the raw graph payload, or nil when the service did not send
	// one and none was seen earlier in the session.
	GraphJSON json.RawMessage `json:"graph_json,omitempty" yaml:"-"`

	// Progress is the build percentage (0-100), set only while IN_PROGRESS.
	Progress *float64 `json:"progress,omitempty" yaml:"progress,omitempty"`

	// RemainingRequests is the caller's remaining quota when the service reports it.
	RemainingRequests *int `json:"remaining_requests,omitempty" yaml:"remaining_requests,omitempty"`
}

// HasGraph reports whether the envelope carries a graph payload.
func (r *GraphResponse) HasGraph() bool {
	return len(r.GraphJSON) > 0
}

// DecodeGraph decodes the payload into the Graph schema. It returns nil, nil
// when the envelope carries no payload.
func (r *GraphResponse) DecodeGraph() (*Graph, error) {
	if !r.HasGraph() {
		return nil, nil
	}
	var g Graph
	if err := json.Unmarshal(r.GraphJSON, &g); err != nil {
		return nil, fmt.Errorf("decoding graph payload: %w", err)
	}
	return &g, nil
}

// wireResponse mirrors the job-status body. Every field is decoded in its own
// step so that a bad field downgrades the envelope instead of failing the poll.
type wireResponse struct {
	Status            json.RawMessage `json:"status"`
	GraphJSON         json.RawMessage `json:"graph_json"`
	Progress          json.RawMessage `json:"progress"`
	RemainingRequests json.RawMessage `json:"remaining_requests"`
}

var jsonNull = []byte("null")

// ParseGraphResponse decodes a job-status body into an envelope. It never
// fails: a body that is not a JSON object, or whose status is missing, not a
// string, or unknown, yields a StatusError envelope. Optional fields with the
// wrong type are dropped.
func ParseGraphResponse(body []byte) GraphResponse {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return GraphResponse{Status: StatusError}
	}

	var raw string
	if err := json.Unmarshal(w.Status, &raw); err != nil {
		return GraphResponse{Status: StatusError}
	}
	resp := GraphResponse{Status: ClassifyStatus(raw)}

	if g := bytes.TrimSpace(w.GraphJSON); len(g) > 0 && !bytes.Equal(g, jsonNull) {
		resp.GraphJSON = append(json.RawMessage(nil), g...)
	}

	var progress float64
	if json.Unmarshal(w.Progress, &progress) == nil && !bytes.Equal(bytes.TrimSpace(w.Progress), jsonNull) {
		resp.Progress = &progress
	}

	// Fractional or out-of-range quotas fail to decode and are dropped.
	var remaining int
	if json.Unmarshal(w.RemainingRequests, &remaining) == nil && !bytes.Equal(bytes.TrimSpace(w.RemainingRequests), jsonNull) {
		resp.RemainingRequests = &remaining
	}

	return resp
}
