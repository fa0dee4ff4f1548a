// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package connected is a client for the Connected Papers graph service.
//
// Graph building is asynchronous on the service side: a request for a paper's
// graph returns a job status (QUEUED, IN_PROGRESS, ...) until the graph is
// ready. Poll exposes that job as a lazy sequence of status envelopes; Graph
// drives the same sequence to completion and returns only the final envelope.
// Overload backoff and session-level transport retries are applied inside both.
package connected

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/pdiddy/connectedpapers/internal/httputil"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

const (
	graphPath            = "/graph"
	remainingUsagesPath  = "/remaining-usages"
	freeAccessPapersPath = "/free-access-papers"

	apiKeyHeader = "X-Api-Key"
)

// ErrRetriesExhausted wraps the last transport failure once a polling session
// has been restarted TransportAttempts times without success.
var ErrRetriesExhausted = errors.New("transport retries exhausted")

// Client talks to the graph service. A Client holds only read-only
// configuration, so one value may serve any number of concurrent sessions.
type Client struct {
	cfg       types.ClientConfig
	http      *http.Client
	sleep     httputil.SleepFunc
	logger    *slog.Logger
	sessionID func() string
}

// Option customizes a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client built from the config timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSleep replaces the function used for every delay: poll interval,
// overload backoff and transport retry.
func WithSleep(sleep httputil.SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// New returns a Client for cfg. Zero BaseURL, PollInterval, TransportAttempts
// and TransportDelay fall back to DefaultConfig; all other zero values are
// used as given.
func New(cfg types.ClientConfig, opts ...Option) *Client {
	def := types.DefaultConfig()
	cfg.OverloadDelays = slices.Clone(cfg.OverloadDelays)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.TransportAttempts <= 0 {
		cfg.TransportAttempts = def.TransportAttempts
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.TransportDelay <= 0 {
		cfg.TransportDelay = def.TransportDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		cfg:       cfg,
		http:      &http.Client{Timeout: cfg.Timeout},
		sleep:     httputil.Sleep,
		logger:    logger,
		sessionID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() types.ClientConfig {
	cfg := c.cfg
	cfg.OverloadDelays = slices.Clone(c.cfg.OverloadDelays)
	return cfg
}

func (c *Client) headers() map[string]string {
	h := map[string]string{apiKeyHeader: c.cfg.APIKey}
	if c.cfg.UserAgent != "" {
		h["User-Agent"] = c.cfg.UserAgent
	}
	return h
}
