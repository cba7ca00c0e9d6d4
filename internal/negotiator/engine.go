// Package negotiator issues the player-metadata request against the
// internal API, walking the identity fallback sequence until one
// yields a usable response.
package negotiator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ytgrab/ytgrab/internal/innertube"
	"github.com/ytgrab/ytgrab/internal/retry"
)

// Engine tries identities in registry order and returns the first
// usable player response.
type Engine struct {
	httpClient     *http.Client
	identities     []innertube.Identity
	retryPolicy    retry.Policy
	attemptTimeout time.Duration
}

// Option tunes an Engine.
type Option func(*Engine)

// WithIdentities overrides the identity trial order.
func WithIdentities(ids []innertube.Identity) Option {
	return func(e *Engine) { e.identities = ids }
}

// WithRetryPolicy overrides the per-identity transient retry budget.
func WithRetryPolicy(p retry.Policy) Option {
	return func(e *Engine) { e.retryPolicy = p }
}

// WithAttemptTimeout bounds every single player request.
func WithAttemptTimeout(d time.Duration) Option {
	return func(e *Engine) { e.attemptTimeout = d }
}

func NewEngine(httpClient *http.Client, opts ...Option) *Engine {
	e := &Engine{
		httpClient:     httpClient,
		identities:     innertube.Identities(),
		retryPolicy:    retry.Default(),
		attemptTimeout: 30 * time.Second,
	}
	if e.httpClient == nil {
		e.httpClient = http.DefaultClient
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Negotiate walks the identity sequence. The first identity producing
// a usable payload wins; later identities are never tried. Transient
// failures (network error, timeout, 429/5xx) are retried per identity
// within the retry budget; anything else short-circuits to the next
// identity.
func (e *Engine) Negotiate(ctx context.Context, videoID string) (*innertube.PlayerResponse, error) {
	var attempts []AttemptError

	for _, id := range e.identities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var resp *innertube.PlayerResponse
		err := e.retryPolicy.Do(ctx, func(ctx context.Context) error {
			r, err := e.fetch(ctx, id, videoID)
			if err != nil {
				if isTransient(err) {
					return err
				}
				return retry.Permanent(err)
			}
			resp = r
			return nil
		})
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		attempts = append(attempts, AttemptError{Identity: id.Name, Err: err})
	}

	return nil, &AllIdentitiesFailedError{Attempts: attempts}
}

func (e *Engine) fetch(ctx context.Context, id innertube.Identity, videoID string) (*innertube.PlayerResponse, error) {
	if e.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()
	}

	body, err := innertube.MarshalRequest(innertube.NewPlayerRequest(id, videoID))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, innertube.PlayerEndpoint(id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", id.UserAgent)
	httpReq.Header.Set("Accept-Language", "en-US,en;q=0.9")
	httpReq.Header.Set("Origin", "https://www.youtube.com")
	httpReq.Header.Set("Referer", "https://www.youtube.com/watch?v="+videoID)

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{Identity: id.Name, StatusCode: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var playerResp innertube.PlayerResponse
	if err := json.Unmarshal(respBody, &playerResp); err != nil {
		return nil, err
	}

	if !playerResp.PlayabilityStatus.IsOK() {
		return nil, &PlayabilityError{
			Identity: id.Name,
			Status:   playerResp.PlayabilityStatus.Status,
			Reason:   playerResp.PlayabilityStatus.Reason,
		}
	}
	if len(playerResp.StreamingData.Formats) == 0 && len(playerResp.StreamingData.AdaptiveFormats) == 0 {
		return nil, &PlayabilityError{
			Identity: id.Name,
			Status:   "OK",
			Reason:   "no streaming data",
		}
	}

	return &playerResp, nil
}

// isTransient classifies failures worth retrying against the same
// identity: timeouts, connection errors, 429 and 5xx. An explicit
// rejection (403 block, playability denial, decode failure) moves on
// to the next identity instead.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	var playErr *PlayabilityError
	if errors.As(err, &playErr) {
		return false
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return false
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return false
	}
	// Remaining cases are transport-level failures (reset, refused,
	// DNS); the backoff exists precisely for those.
	return true
}
