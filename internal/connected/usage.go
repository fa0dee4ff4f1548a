// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connected

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/connectedpapers/internal/httputil"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

type remainingUsagesResponse struct {
	RemainingUses *int `json:"remaining_uses"`
}

type freeAccessPapersResponse struct {
	Papers []types.PaperID `json:"papers"`
}

// RemainingUsages returns how many graph requests the API key has left.
func (c *Client) RemainingUsages(ctx context.Context) (int, error) {
	body, err := httputil.Get(ctx, c.http, c.cfg.BaseURL+remainingUsagesPath, c.headers())
	if err != nil {
		return 0, fmt.Errorf("fetching remaining usages: %w", err)
	}

	var r remainingUsagesResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, fmt.Errorf("parsing remaining usages response: %w", err)
	}
	if r.RemainingUses == nil {
		return 0, fmt.Errorf("remaining usages response has no remaining_uses field")
	}
	return *r.RemainingUses, nil
}

// FreeAccessPapers returns the paper ids whose graphs do not count against
// the quota.
func (c *Client) FreeAccessPapers(ctx context.Context) ([]types.PaperID, error) {
	body, err := httputil.Get(ctx, c.http, c.cfg.BaseURL+freeAccessPapersPath, c.headers())
	if err != nil {
		return nil, fmt.Errorf("fetching free access papers: %w", err)
	}

	var r freeAccessPapersResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("parsing free access papers response: %w", err)
	}
	return r.Papers, nil
}
