// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connected

import (
	"context"
	"sync"

	"github.com/pdiddy/connectedpapers/pkg/types"
)

// Collect drives Poll to the end and returns the last envelope. If the
// sequence ends without producing one, a StatusError envelope is returned.
// Collect blocks the calling goroutine; callers that want intermediate
// statuses should range over Poll instead.
func (c *Client) Collect(ctx context.Context, paperID types.PaperID, opts PollOptions) (types.GraphResponse, error) {
	last := types.GraphResponse{Status: types.StatusError}
	for resp, err := range c.Poll(ctx, paperID, opts) {
		if err != nil {
			return types.GraphResponse{}, err
		}
		last = resp
	}
	return last, nil
}

// Graph waits for the graph of paperID. With freshOnly false a cached graph
// (OLD_GRAPH) is accepted; otherwise Graph waits for a fresh build.
func (c *Client) Graph(ctx context.Context, paperID types.PaperID, freshOnly bool) (types.GraphResponse, error) {
	return c.Collect(ctx, paperID, PollOptions{FreshOnly: freshOnly, WaitUntilComplete: true})
}

// GraphResult pairs a paper id with the outcome of its polling session.
type GraphResult struct {
	PaperID  types.PaperID
	Response types.GraphResponse
	Err      error
}

// GraphAll runs one independent Graph session per paper id concurrently and
// returns the results in input order.
func (c *Client) GraphAll(ctx context.Context, paperIDs []types.PaperID, freshOnly bool) []GraphResult {
	results := make([]GraphResult, len(paperIDs))
	var wg sync.WaitGroup
	for i, id := range paperIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.Graph(ctx, id, freshOnly)
			results[i] = GraphResult{PaperID: id, Response: resp, Err: err}
		}()
	}
	wg.Wait()
	return results
}
