package client

import (
	"net/http"
	"time"

	"github.com/ytgrab/ytgrab/internal/fetch"
	"github.com/ytgrab/ytgrab/internal/muxer"
)

// Config holds configuration for the client. Zero value works; every
// knob has a default.
type Config struct {
	// HTTPClient is used for all requests. If nil, a default client is
	// built (honoring ProxyURL).
	HTTPClient *http.Client

	// ProxyURL is the optional proxy for requests. Ignored when
	// HTTPClient is provided.
	ProxyURL string

	// OutputDir is where downloads land; created on first use.
	// Defaults to "./downloads".
	OutputDir string

	// RequestTimeout bounds every single network attempt
	// (negotiation and transfer alike). Defaults to 30s.
	RequestTimeout time.Duration

	// RetryAttempts is the per-identity and per-transfer try budget.
	// Defaults to 3.
	RetryAttempts int

	// RetryBaseDelay is the first backoff step. Defaults to 500ms.
	RetryBaseDelay time.Duration

	// PlayerJS is an optional player script body enabling the
	// signature-deciphering capability. Without it, cipher-protected
	// formats are excluded from catalogs.
	PlayerJS string

	// Muxer combines paired adaptive streams. If nil, ffmpeg is probed
	// on PATH; when unavailable, paired downloads finalize as two
	// files.
	Muxer muxer.Muxer

	// Logger receives non-fatal warnings. Defaults to a no-op.
	Logger Logger

	// Progress, when set, observes transfer progress (bytes written and
	// total when known). Nil disables reporting.
	Progress fetch.ProgressReporter
}

const (
	defaultOutputDir      = "./downloads"
	defaultRequestTimeout = 30 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 500 * time.Millisecond
)

func (c *Config) applyDefaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = defaultHTTPClient(c.ProxyURL)
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.RetryAttempts < 1 {
		c.RetryAttempts = defaultRetryAttempts
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = defaultRetryBaseDelay
	}
	if c.Muxer == nil {
		c.Muxer = muxer.NewFFmpeg("")
	}
	if c.Logger == nil {
		c.Logger = nopLogger{}
	}
}
