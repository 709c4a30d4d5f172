// Package apiclient builds HTTP client handles for the Orion API.
//
// A Resolver holds the API base address. Each call to NewClient returns an
// independent handle rooted at the base address plus an optional path suffix,
// and every request made through the handle is prefixed with that root.
// Building a handle never touches the network.
package apiclient

import (
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseAddress is used when no base address is configured.
	DefaultBaseAddress = "http://127.0.0.1:4300/api"

	DefaultTimeout     = 10 * time.Second
	DefaultFilterLimit = 200
	userAgent          = "orion-dashboard"
)

// Config holds the values a Resolver is built from. Zero values fall back to
// the package defaults.
type Config struct {
	BaseAddress  string
	Timeout      time.Duration
	DefaultLimit int
	Logger       *slog.Logger
}

// Resolver creates client handles scoped to paths below a fixed base address.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	baseAddress  string
	timeout      time.Duration
	defaultLimit int
	logger       *slog.Logger
}

func NewResolver(cfg Config) *Resolver {
	if cfg.BaseAddress == "" {
		cfg.BaseAddress = DefaultBaseAddress
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultFilterLimit
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Resolver{
		baseAddress:  cfg.BaseAddress,
		timeout:      cfg.Timeout,
		defaultLimit: cfg.DefaultLimit,
		logger:       cfg.Logger,
	}
}

// BaseAddress returns the address every handle is rooted at.
func (r *Resolver) BaseAddress() string {
	return r.baseAddress
}

// NewClient returns a handle whose root is the base address followed by the
// suffix fragments, joined by plain concatenation. Calling it with no suffix
// is the same as calling it with "".
func (r *Resolver) NewClient(suffix ...string) *Client {
	root := r.baseAddress + strings.Join(suffix, "")

	rc := resty.New().
		SetTimeout(r.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetLogger(newRestyLogger(r.logger))

	c := &Client{
		baseURL: root,
		resty:   rc,
		logger:  r.logger,
	}
	rc.OnAfterResponse(c.logResponse)

	return c
}
