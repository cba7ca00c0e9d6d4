package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ytgrab/ytgrab/client"
)

var flagAudioOnly bool

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download the stream matching the requested quality",
	Args:  cobra.ExactArgs(1),
	RunE:  downloadRun,
}

func init() {
	downloadCmd.Flags().BoolVarP(&flagAudioOnly, "audio-only", "a", false, "Download the best audio stream only")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	progress := &stderrProgress{}
	c, err := newClient(progress)
	if err != nil {
		return printFailure(err)
	}

	// In-flight transfers discard their temporary files on interrupt;
	// nothing partial is ever promoted to the final name.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, _ := c.Download(ctx, args[0], client.DownloadOptions{
		Quality:   cfg.Quality,
		AudioOnly: flagAudioOnly,
	})
	progress.finish()
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

// stderrProgress renders transfer progress in place on stderr, in the
// shape "Progress: 42.0% (3.1/7.4 MB)". Paired legs report
// independently; the line shows the most recent callback. Stdout stays
// reserved for the structured result.
type stderrProgress struct {
	mu    sync.Mutex
	wrote bool
}

func (p *stderrProgress) OnProgress(bytesWritten, totalBytes int64) {
	if totalBytes <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	const mb = 1 << 20
	fmt.Fprintf(os.Stderr, "\rProgress: %.1f%% (%.1f/%.1f MB)",
		float64(bytesWritten)/float64(totalBytes)*100,
		float64(bytesWritten)/mb,
		float64(totalBytes)/mb)
	p.wrote = true
}

// finish terminates the in-place progress line before anything else is
// printed.
func (p *stderrProgress) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.wrote {
		fmt.Fprintln(os.Stderr)
	}
}

// printFailure emits the failure envelope and propagates a non-zero
// process outcome.
func printFailure(err error) error {
	if jsonErr := printJSON(map[string]string{"error": err.Error()}); jsonErr != nil {
		return jsonErr
	}
	return err
}
