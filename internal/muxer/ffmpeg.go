// Package muxer wraps the optional external remux capability used to
// combine paired adaptive streams. No re-encoding happens here: both
// tracks are stream-copied into the output container.
package muxer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Muxer combines a video-only and an audio-only file into one output.
type Muxer interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outputPath string, title, author string) error
}

// FFmpeg implements Muxer with the ffmpeg command line tool.
type FFmpeg struct {
	Path string
}

// NewFFmpeg returns an FFmpeg muxer. If path is empty, "ffmpeg" is
// looked up in PATH.
func NewFFmpeg(path string) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{Path: path}
}

// Available reports whether the ffmpeg binary is executable.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// Merge stream-copies both inputs into outputPath and removes the
// inputs on success.
func (f *FFmpeg) Merge(ctx context.Context, videoPath, audioPath, outputPath string, title, author string) error {
	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "copy",
	}
	if title != "" {
		args = append(args, "-metadata", "title="+title)
	}
	if author != "" {
		args = append(args, "-metadata", "artist="+author)
	}
	args = append(args, "-y", outputPath)

	cmd := exec.CommandContext(ctx, f.Path, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w", err)
	}

	_ = os.Remove(videoPath)
	_ = os.Remove(audioPath)
	return nil
}
