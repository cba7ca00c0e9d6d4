package client

// FormatRecord is the normalized stream descriptor surfaced across the
// boundary. Raw API payloads, stream URLs, and identity-selection
// details stay internal.
type FormatRecord struct {
	Itag          int    `json:"itag"`
	Quality       string `json:"quality,omitempty"`
	QualityLabel  string `json:"qualityLabel,omitempty"`
	MimeType      string `json:"mimeType"`
	HasAudio      bool   `json:"hasAudio"`
	HasVideo      bool   `json:"hasVideo"`
	Bitrate       int    `json:"bitrate"`
	ContentLength int64  `json:"contentLength,omitempty"`
}

// VideoInfo is the metadata record for info-only requests.
type VideoInfo struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Author       string         `json:"author"`
	DurationSec  int64          `json:"duration"`
	ViewCount    int64          `json:"viewCount"`
	Description  string         `json:"description,omitempty"`
	ThumbnailURL string         `json:"thumbnail,omitempty"`
	Formats      []FormatRecord `json:"formats"`
}

// DownloadOptions controls a download invocation.
type DownloadOptions struct {
	// Quality is "best", "worst", or a resolution label such as "720p".
	// Empty means "best". Ignored when AudioOnly is set.
	Quality   string
	AudioOnly bool
}

// DownloadResult is the terminal outcome of one download invocation,
// immutable once produced.
type DownloadResult struct {
	Success bool   `json:"success"`
	Title   string `json:"title,omitempty"`
	// Filepath is the finalized output. For a paired selection with no
	// remux capability it is the video leg; ExtraFiles then lists the
	// audio leg (the documented dual-file fallback).
	Filepath     string   `json:"filepath,omitempty"`
	ExtraFiles   []string `json:"extraFiles,omitempty"`
	BytesWritten int64    `json:"bytesWritten,omitempty"`
	// Quality is the label actually selected; it differs from the
	// requested label when the nearest-match policy substituted.
	Quality     string `json:"quality,omitempty"`
	Substituted bool   `json:"substituted,omitempty"`
	Error       string `json:"error,omitempty"`
}
