package types

import (
	"log/slog"
	"time"
)

// DefaultBaseURL is the production REST endpoint of the graph service.
const DefaultBaseURL = "https://rest.prod.connectedpapers.com/papers-api"

// HTTPConfig holds shared HTTP settings used for every request.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "connectedpapers/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig is the immutable configuration of a graph client. It is copied
// at construction; changing it afterwards has no effect on the client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the service root; endpoint paths are appended to it.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKey is sent in the X-Api-Key header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// RetryOnOverload enables the overload backoff schedule. When false an
	// OVERLOADED status ends the session immediately.
	RetryOnOverload bool `json:"retry_on_overload" yaml:"retry_on_overload" mapstructure:"retry_on_overload"`

	// OverloadDelays is the ordered backoff schedule used while the service
	// reports OVERLOADED (default 5s, 10s, 20s, 40s).
	OverloadDelays []time.Duration `json:"overload_delays" yaml:"overload_delays" mapstructure:"overload_delays"`

	// PollInterval is the fixed delay between polls of an unfinished job (default 1s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval" mapstructure:"poll_interval"`

	// TransportAttempts is the number of times a whole polling session is
	// started before a transport failure is returned (default 3).
	TransportAttempts int `json:"transport_attempts" yaml:"transport_attempts" mapstructure:"transport_attempts"`

	// TransportDelay is the delay before restarting a failed session (default 5s).
	TransportDelay time.Duration `json:"transport_delay" yaml:"transport_delay" mapstructure:"transport_delay"`

	// Logger receives session events. Nil discards them.
	Logger *slog.Logger `json:"-" yaml:"-" mapstructure:"-"`
}

// DefaultConfig returns the production defaults with overload retries enabled.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   60 * time.Second,
			UserAgent: "connectedpapers/0.1",
		},
		BaseURL:           DefaultBaseURL,
		RetryOnOverload:   true,
		OverloadDelays:    []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second, 40 * time.Second},
		PollInterval:      1 * time.Second,
		TransportAttempts: 3,
		TransportDelay:    5 * time.Second,
	}
}
