// Package fetch performs the byte transfer for chosen streams: retry
// with backoff, scoped temporary files, and atomic finalization.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ytgrab/ytgrab/internal/retry"
)

// ErrTransfer wraps I/O or integrity failures that exhausted the retry
// budget.
var ErrTransfer = errors.New("transfer failed")

// Task describes one stream transfer.
type Task struct {
	URL       string
	OutputDir string
	// FileName is the final name within OutputDir, extension included.
	FileName string
	// ContentLength, when positive, is the declared stream size the
	// written bytes must match.
	ContentLength int64
	UserAgent     string
}

// Result reports one finalized transfer.
type Result struct {
	Path  string
	Bytes int64
}

// ProgressReporter is an interface for reporting transfer progress.
// OnProgress is called from the transfer goroutine as bytes land on
// disk; paired retrievals report each leg independently.
type ProgressReporter interface {
	OnProgress(bytesWritten int64, totalBytes int64)
}

// Engine streams task bodies to disk.
type Engine struct {
	HTTPClient *http.Client
	Retry      retry.Policy
	// AttemptTimeout bounds a single transfer attempt; zero means the
	// surrounding context is the only bound.
	AttemptTimeout time.Duration
	// Progress, when set, observes every transfer. A retried transfer
	// starts its count over.
	Progress ProgressReporter
}

func NewEngine(httpClient *http.Client) *Engine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Engine{HTTPClient: httpClient, Retry: retry.Default()}
}

type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("download failed: status=%d", e.StatusCode)
}

type lengthMismatchError struct {
	Want, Got int64
}

func (e *lengthMismatchError) Error() string {
	return fmt.Sprintf("length mismatch: wrote %d of %d bytes", e.Got, e.Want)
}

// Fetch streams the task body into a unique temporary file under the
// destination directory, verifies the declared length when known, and
// atomically renames into the final path. A failed or cancelled
// transfer removes the temporary file; nothing partial ever lands at
// the final name. A mismatch or transient failure re-runs the whole
// transfer within the retry budget.
func (e *Engine) Fetch(ctx context.Context, task Task) (Result, error) {
	if err := os.MkdirAll(task.OutputDir, 0o755); err != nil {
		return Result{}, err
	}

	tmp, err := os.CreateTemp(task.OutputDir, ".ytgrab-*.part")
	if err != nil {
		return Result{}, err
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	var written int64
	err = e.Retry.Do(ctx, func(ctx context.Context) error {
		n, err := e.transferOnce(ctx, task, tmp)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return retry.Permanent(err)
		}
		written = n
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	if err := tmp.Sync(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTransfer, err)
	}

	finalPath := filepath.Join(task.OutputDir, task.FileName)
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrTransfer, err)
	}
	return Result{Path: finalPath, Bytes: written}, nil
}

// transferOnce rewinds the temporary file and writes one full copy of
// the stream, checking the byte count against the declared length.
func (e *Engine) transferOnce(ctx context.Context, task Task, dst *os.File) (int64, error) {
	if e.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.AttemptTimeout)
		defer cancel()
	}
	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	if err := dst.Truncate(0); err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return 0, err
	}
	if task.UserAgent != "" {
		req.Header.Set("User-Agent", task.UserAgent)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &httpStatusError{StatusCode: resp.StatusCode}
	}

	want := task.ContentLength
	if want <= 0 && resp.ContentLength > 0 {
		want = resp.ContentLength
	}

	var w io.Writer = dst
	if e.Progress != nil {
		w = &progressWriter{dst: dst, total: want, report: e.Progress}
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return 0, err
	}
	if want > 0 && n != want {
		return 0, &lengthMismatchError{Want: want, Got: n}
	}
	return n, nil
}

// progressWriter counts bytes through to the destination and reports
// them as they land.
type progressWriter struct {
	dst     io.Writer
	total   int64
	written int64
	report  ProgressReporter
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.dst.Write(b)
	p.written += int64(n)
	p.report.OnProgress(p.written, p.total)
	return n, err
}

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		// A blown per-attempt timeout is transient; parent-context
		// expiry ends the retry loop in the backoff wait instead.
		return true
	}
	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var mismatch *lengthMismatchError
	if errors.As(err, &mismatch) {
		return true
	}
	// Transport-level failures (reset, EOF mid-body) are worth another
	// full transfer.
	return true
}
