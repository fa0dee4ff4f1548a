// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connected

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"net/url"
	"slices"

	"github.com/pdiddy/connectedpapers/internal/httputil"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

// PollOptions selects how a polling session behaves.
type PollOptions struct {
	// FreshOnly asks the service to rebuild the graph instead of returning a
	// cached one. When false, an OLD_GRAPH answer ends the session.
	FreshOnly bool

	// WaitUntilComplete keeps polling through QUEUED, IN_PROGRESS and (when
	// FreshOnly is set) OLD_GRAPH until a terminal status arrives. When false
	// the session ends after the first envelope.
	WaitUntilComplete bool
}

// Poll returns the lazy sequence of envelopes for paperID. Each step of the
// sequence performs at most one round of HTTP requests; nothing happens until
// the caller ranges over it, and breaking out of the loop ends the session
// without further requests. The sequence is single-use.
//
// A transport failure (connection error or non-2xx response) restarts the
// whole session from scratch, up to TransportAttempts times, so envelopes
// already seen may be produced again. When the attempts are exhausted the
// sequence ends with a non-nil error wrapping ErrRetriesExhausted and the last
// failure. Context cancellation ends the sequence with ctx.Err().
func (c *Client) Poll(ctx context.Context, paperID types.PaperID, opts PollOptions) iter.Seq2[types.GraphResponse, error] {
	return func(yield func(types.GraphResponse, error) bool) {
		log := c.logger.With("session", c.sessionID(), "paper_id", paperID)
		log.Debug("polling session started", "fresh_only", opts.FreshOnly, "wait", opts.WaitUntilComplete)

		stopped := false
		emit := func(resp types.GraphResponse) bool {
			if !yield(resp, nil) {
				stopped = true
				return false
			}
			return true
		}

		attempts, err := httputil.Retry(ctx, c.cfg.TransportAttempts, c.cfg.TransportDelay, c.sleep,
			func(attempt int, err error) {
				log.Warn("polling session failed, restarting",
					"attempt", attempt, "delay", c.cfg.TransportDelay, "error", err)
			},
			func(int) error {
				s := c.newSession(paperID, opts, log)
				return s.run(ctx, emit)
			})
		if err == nil || stopped {
			return
		}
		if httputil.Retryable(ctx, err) {
			log.Error("polling session failed", "attempts", attempts, "error", err)
			err = fmt.Errorf("polling graph for %s: %w after %d attempts: %w", paperID, ErrRetriesExhausted, attempts, err)
		}
		yield(types.GraphResponse{}, err)
	}
}

// session is the per-connection state of one polling run. A fresh session is
// built for every transport attempt.
type session struct {
	c         *Client
	log       *slog.Logger
	paperID   types.PaperID
	freshOnly bool
	acceptOld bool
	wait      bool
	backoff   *overloadBackoff
	newest    json.RawMessage
}

func (c *Client) newSession(paperID types.PaperID, opts PollOptions, log *slog.Logger) *session {
	return &session{
		c:         c,
		log:       log,
		paperID:   paperID,
		freshOnly: opts.FreshOnly,
		acceptOld: !opts.FreshOnly,
		wait:      opts.WaitUntilComplete,
		backoff:   newOverloadBackoff(c.cfg.RetryOnOverload, c.cfg.OverloadDelays),
	}
}

// run polls until a terminal envelope has been emitted, emit returns false,
// or a request fails. It returns nil in the first two cases.
func (s *session) run(ctx context.Context, emit func(types.GraphResponse) bool) error {
	for {
		resp, err := s.poll(ctx)
		if err != nil {
			return err
		}
		// Only the first request honors the caller's freshness flag.
		s.freshOnly = true
		s.retain(&resp)

		s.log.Debug("graph status", "status", resp.Status, "progress", resp.Progress)

		if resp.Status == types.StatusOverloaded {
			delay, retry := s.backoff.next()
			if !retry {
				s.log.Warn("service overloaded, giving up", "attempts", s.backoff.attempt)
				emit(resp)
				return nil
			}
			s.log.Info("service overloaded, backing off", "attempt", s.backoff.attempt, "delay", delay)
			if err := s.c.sleep(ctx, delay); err != nil {
				return err
			}
			continue
		}
		s.backoff.reset()

		switch {
		case resp.Status == types.StatusOldGraph && s.acceptOld:
			emit(resp)
			return nil
		case resp.Status.Terminal() || !s.wait:
			emit(resp)
			return nil
		}

		// QUEUED, IN_PROGRESS, or OLD_GRAPH while waiting for a fresh build.
		if !emit(resp) {
			return nil
		}
		if err := s.c.sleep(ctx, s.c.cfg.PollInterval); err != nil {
			return err
		}
	}
}

// poll issues one job-status request and classifies the body.
func (s *session) poll(ctx context.Context) (types.GraphResponse, error) {
	body, err := httputil.Get(ctx, s.c.http, s.c.graphURL(s.paperID, s.freshOnly), s.c.headers())
	if err != nil {
		return types.GraphResponse{}, err
	}
	return types.ParseGraphResponse(body), nil
}

// retain keeps the newest payload seen in the session and backfills it into
// envelopes that arrive without one. Each envelope gets its own copy.
func (s *session) retain(resp *types.GraphResponse) {
	if resp.HasGraph() {
		s.newest = slices.Clone(resp.GraphJSON)
		return
	}
	resp.GraphJSON = slices.Clone(s.newest)
}

func (c *Client) graphURL(paperID types.PaperID, freshOnly bool) string {
	flag := 0
	if freshOnly {
		flag = 1
	}
	return fmt.Sprintf("%s%s/%d/%s", c.cfg.BaseURL, graphPath, flag, url.PathEscape(paperID))
}
