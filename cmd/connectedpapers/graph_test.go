// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/connectedpapers/internal/connected"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

const sampleGraph = `{"start_id":"p1","nodes":{
	"p1":{"id":"p1","title":"Start","year":2020,"authors":[{"name":"A"},{"name":"B"},{"name":"C"},{"name":"D"}],"path_length":0},
	"p2":{"id":"p2","title":"Neighbor","venue":"NeurIPS","path_length":1.5}},
	"edges":[["p1","p2",0.4]]}`

func TestGraphModeOptions(t *testing.T) {
	tests := []struct {
		name      string
		acceptOld bool
		noWait    bool
		want      connected.PollOptions
	}{
		{"default forces fresh", false, false, connected.PollOptions{FreshOnly: true, WaitUntilComplete: true}},
		{"accept old", true, false, connected.PollOptions{FreshOnly: false, WaitUntilComplete: true}},
		{"no wait", false, true, connected.PollOptions{FreshOnly: false, WaitUntilComplete: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, graphModeOptions(tt.acceptOld, tt.noWait))
		})
	}
}

func TestWriteGraphResult_Text(t *testing.T) {
	resp := types.GraphResponse{
		Status:            types.StatusFreshGraph,
		GraphJSON:         json.RawMessage(sampleGraph),
		RemainingRequests: func() *int { n := 4; return &n }(),
	}

	var buf bytes.Buffer
	require.NoError(t, writeGraphResult(&buf, "p1", resp, "text", true))
	out := buf.String()

	assert.Contains(t, out, "Final Status: FRESH_GRAPH")
	assert.Contains(t, out, "Graph contains 2 papers")
	assert.Contains(t, out, "Start paper ID: p1")
	assert.Contains(t, out, "1. Start")
	assert.Contains(t, out, "Authors: A, B, C (+ 1 more)")
	assert.Contains(t, out, "2. Neighbor")
	assert.Contains(t, out, "Venue: NeurIPS")
	assert.Contains(t, out, "Remaining API requests: 4")
}

func TestWriteGraphResult_NoGraph(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGraphResult(&buf, "x", types.GraphResponse{Status: types.StatusNotInDB}, "text", false))
	assert.Contains(t, buf.String(), "No graph data received")
}

func TestWriteGraphResult_JSONAndYAML(t *testing.T) {
	resp := types.GraphResponse{Status: types.StatusOldGraph, GraphJSON: json.RawMessage(sampleGraph)}

	var jbuf bytes.Buffer
	require.NoError(t, writeGraphResult(&jbuf, "p1", resp, "json", false))
	var decoded graphOutput
	require.NoError(t, json.Unmarshal(jbuf.Bytes(), &decoded))
	assert.Equal(t, types.StatusOldGraph, decoded.Status)
	require.NotNil(t, decoded.Graph)
	assert.Len(t, decoded.Graph.Nodes, 2)

	var ybuf bytes.Buffer
	require.NoError(t, writeGraphResult(&ybuf, "p1", resp, "yaml", false))
	var y map[string]any
	require.NoError(t, yaml.Unmarshal(ybuf.Bytes(), &y))
	assert.Equal(t, "OLD_GRAPH", y["status"])
	assert.Equal(t, "p1", y["paper_id"])
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, checkFormat("text"))
	assert.NoError(t, checkFormat("yaml"))
	assert.Error(t, checkFormat("xml"))
}

func TestWatchGraph_PrintsEachStatus(t *testing.T) {
	replies := []string{
		`{"status":"QUEUED"}`,
		`{"status":"IN_PROGRESS","progress":50}`,
		`{"status":"FRESH_GRAPH","graph_json":{"start_id":"p1"}}`,
	}
	n := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, replies[n])
		n++
	}))
	defer ts.Close()

	cfg := types.DefaultConfig()
	cfg.BaseURL = ts.URL
	cfg.APIKey = "k"
	client := connected.New(cfg, connected.WithSleep(func(context.Context, time.Duration) error { return nil }))

	var buf bytes.Buffer
	resp, err := watchGraph(context.Background(), client, "p1", connected.PollOptions{FreshOnly: true, WaitUntilComplete: true}, &buf)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFreshGraph, resp.Status)
	assert.Equal(t, "fetching graph: p1\n  status: QUEUED\n  status: IN_PROGRESS (50%)\n  status: FRESH_GRAPH\n", buf.String())
}

func TestWriteUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeUsage(&buf, usageReport{RemainingUses: 3, FreeAccessPapers: []string{"a", "b"}}, "text"))
	assert.Equal(t, "Remaining uses count: 3\nFree access papers: 2\n  a\n  b\n", buf.String())

	buf.Reset()
	require.NoError(t, writeUsage(&buf, usageReport{RemainingUses: 3}, "json"))
	assert.JSONEq(t, `{"remaining_uses":3,"free_access_papers":null}`, buf.String())
}
