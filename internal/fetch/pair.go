package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// PairResult reports a paired video+audio retrieval. When Merged is
// true, Paths holds the single combined output; otherwise it lists the
// finalized sub-stream files, the documented fallback when no remux
// capability is available.
type PairResult struct {
	Paths  []string
	Bytes  int64
	Merged bool
}

// Muxer combines a video-only and an audio-only file into one
// container. It is an optional external capability.
type Muxer interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outputPath string, title, author string) error
}

type legResult struct {
	res Result
	err error
}

// FetchPair retrieves the two legs of a paired task concurrently. The
// combine step is a synchronization barrier: it waits for both legs,
// and the first fatal failure cancels the other leg. The two legs use
// distinct temporary names, so concurrent invocations sharing a
// destination directory cannot collide.
func (e *Engine) FetchPair(ctx context.Context, video, audio Task, mux Muxer, mergedName, title, author string) (PairResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var videoLeg, audioLeg legResult

	run := func(task Task, out *legResult) {
		defer wg.Done()
		out.res, out.err = e.Fetch(ctx, task)
		if out.err != nil {
			cancel()
		}
	}

	wg.Add(2)
	go run(video, &videoLeg)
	go run(audio, &audioLeg)
	wg.Wait()

	if videoLeg.err != nil || audioLeg.err != nil {
		removeIfPresent(videoLeg)
		removeIfPresent(audioLeg)
		return PairResult{}, legFailure(videoLeg.err, audioLeg.err)
	}

	total := videoLeg.res.Bytes + audioLeg.res.Bytes
	if mux == nil || !mux.Available() {
		return PairResult{
			Paths: []string{videoLeg.res.Path, audioLeg.res.Path},
			Bytes: total,
		}, nil
	}

	mergedPath := joinOutput(video.OutputDir, mergedName)
	if err := mux.Merge(ctx, videoLeg.res.Path, audioLeg.res.Path, mergedPath, title, author); err != nil {
		// Remux failure leaves the two finalized legs in place; the
		// caller reports them as the dual-file outcome.
		return PairResult{
			Paths: []string{videoLeg.res.Path, audioLeg.res.Path},
			Bytes: total,
		}, nil
	}
	return PairResult{
		Paths:  []string{mergedPath},
		Bytes:  fileSize(mergedPath),
		Merged: true,
	}, nil
}

// legFailure picks the leg error carrying the root diagnostic. A leg
// cancelled because its sibling failed reports only the cancellation,
// so a non-cancellation failure always wins.
func legFailure(videoErr, audioErr error) error {
	for _, err := range []error{videoErr, audioErr} {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	if videoErr != nil {
		return videoErr
	}
	return audioErr
}

func removeIfPresent(leg legResult) {
	if leg.err == nil && leg.res.Path != "" {
		os.Remove(leg.res.Path)
	}
}

func joinOutput(dir, name string) string {
	return filepath.Join(dir, name)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
