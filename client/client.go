// Package client is the boundary surface of the extraction-and-download
// engine: identifier resolution, catalog retrieval, quality selection,
// and stream download, exposed as structured results.
package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ytgrab/ytgrab/internal/catalog"
	"github.com/ytgrab/ytgrab/internal/decipher"
	"github.com/ytgrab/ytgrab/internal/fetch"
	"github.com/ytgrab/ytgrab/internal/innertube"
	"github.com/ytgrab/ytgrab/internal/negotiator"
	"github.com/ytgrab/ytgrab/internal/retry"
	"github.com/ytgrab/ytgrab/internal/selector"
)

// Client is the high-level extraction client. Invocations are
// independent; no state is shared or persisted across calls.
type Client struct {
	config  Config
	engine  *negotiator.Engine
	builder catalog.Builder
	fetcher *fetch.Engine
	logger  Logger
}

// New creates a client from config, filling in defaults.
func New(config Config) *Client {
	config.applyDefaults()

	policy := retry.Policy{
		Attempts:  config.RetryAttempts,
		BaseDelay: config.RetryBaseDelay,
	}

	builder := catalog.Builder{}
	if config.PlayerJS != "" {
		builder.Decipher = decipher.New(config.PlayerJS)
	}

	fetcher := fetch.NewEngine(config.HTTPClient)
	fetcher.Retry = policy
	fetcher.AttemptTimeout = config.RequestTimeout
	fetcher.Progress = config.Progress

	return &Client{
		config: config,
		engine: negotiator.NewEngine(config.HTTPClient,
			negotiator.WithRetryPolicy(policy),
			negotiator.WithAttemptTimeout(config.RequestTimeout),
		),
		builder: builder,
		fetcher: fetcher,
		logger:  config.Logger,
	}
}

// GetInfo resolves the input and returns video metadata with the full
// normalized catalog.
func (c *Client) GetInfo(ctx context.Context, input string) (*VideoInfo, error) {
	videoID, resp, cat, err := c.resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	details := resp.VideoDetails
	info := &VideoInfo{
		ID:          videoID,
		Title:       details.Title,
		Author:      details.Author,
		DurationSec: parseInt64(details.LengthSeconds),
		ViewCount:   parseInt64(details.ViewCount),
		Description: details.ShortDescription,
		Formats:     toBoundaryRecords(cat),
	}
	if n := len(details.Thumbnail.Thumbnails); n > 0 {
		info.ThumbnailURL = details.Thumbnail.Thumbnails[n-1].URL
	}
	return info, nil
}

// GetFormats returns the normalized catalog only.
func (c *Client) GetFormats(ctx context.Context, input string) ([]FormatRecord, error) {
	_, _, cat, err := c.resolve(ctx, input)
	if err != nil {
		return nil, err
	}
	return toBoundaryRecords(cat), nil
}

// Download resolves the input, selects the stream(s) matching the
// requested quality, and retrieves them into the configured output
// directory. The returned result is terminal: Error is populated iff
// Success is false, and the error return carries the same failure for
// errors.Is inspection.
func (c *Client) Download(ctx context.Context, input string, opts DownloadOptions) (*DownloadResult, error) {
	videoID, resp, cat, err := c.resolve(ctx, input)
	if err != nil {
		return failure("", err), err
	}
	title := resp.VideoDetails.Title

	sel, err := selector.Select(cat, strings.ToLower(strings.TrimSpace(opts.Quality)), opts.AudioOnly)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrNoSuitableFormat, err)
		return failure(title, err), err
	}
	if sel.Substituted {
		c.logger.Warnf("requested quality %q not available, selected %s", opts.Quality, sel.Label)
	}

	baseName := fetch.SafeBaseName(title) + "_" + videoID

	if sel.Companion == nil {
		task := c.taskFor(sel.Primary, baseName+fetch.ExtensionForMime(sel.Primary.MimeType))
		res, err := c.fetcher.Fetch(ctx, task)
		if err != nil {
			err = mapTransferError(err)
			return failure(title, err), err
		}
		return &DownloadResult{
			Success:      true,
			Title:        title,
			Filepath:     res.Path,
			BytesWritten: res.Bytes,
			Quality:      sel.Label,
			Substituted:  sel.Substituted,
		}, nil
	}

	videoTask := c.taskFor(sel.Primary, pairLegName(baseName, sel.Primary))
	audioTask := c.taskFor(*sel.Companion, pairLegName(baseName, *sel.Companion))

	pair, err := c.fetcher.FetchPair(ctx, videoTask, audioTask, c.config.Muxer, baseName+".mp4", title, resp.VideoDetails.Author)
	if err != nil {
		err = mapTransferError(err)
		return failure(title, err), err
	}
	if !pair.Merged {
		c.logger.Warnf("no remux capability available, keeping separate video and audio files")
	}

	result := &DownloadResult{
		Success:      true,
		Title:        title,
		Filepath:     pair.Paths[0],
		BytesWritten: pair.Bytes,
		Quality:      sel.Label,
		Substituted:  sel.Substituted,
	}
	if len(pair.Paths) > 1 {
		result.ExtraFiles = pair.Paths[1:]
	}
	return result, nil
}

// resolve runs identifier validation, negotiation, and catalog
// construction; it is the shared front half of every operation.
func (c *Client) resolve(ctx context.Context, input string) (string, *innertube.PlayerResponse, []catalog.FormatRecord, error) {
	videoID, err := ExtractVideoID(input)
	if err != nil {
		return "", nil, nil, err
	}

	resp, err := c.engine.Negotiate(ctx, videoID)
	if err != nil {
		return "", nil, nil, mapNegotiationError(err)
	}

	cat, err := c.builder.Build(resp)
	if err != nil {
		if errors.Is(err, catalog.ErrEmpty) {
			return "", nil, nil, ErrEmptyCatalog
		}
		return "", nil, nil, err
	}
	return videoID, resp, cat, nil
}

func (c *Client) taskFor(rec catalog.FormatRecord, fileName string) fetch.Task {
	return fetch.Task{
		URL:           rec.URL,
		OutputDir:     c.config.OutputDir,
		FileName:      fileName,
		ContentLength: rec.ContentLength,
		UserAgent:     innertube.AndroidIdentity.UserAgent,
	}
}

func pairLegName(baseName string, rec catalog.FormatRecord) string {
	return baseName + ".f" + strconv.Itoa(rec.Itag) + fetch.ExtensionForMime(rec.MimeType)
}

func mapNegotiationError(err error) error {
	var allFailed *negotiator.AllIdentitiesFailedError
	if errors.As(err, &allFailed) {
		for _, attempt := range allFailed.Attempts {
			var playErr *negotiator.PlayabilityError
			if errors.As(attempt.Err, &playErr) && playErr.IsRestricted() {
				return fmt.Errorf("%w: %v", ErrRestricted, allFailed.Last().Err)
			}
		}
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return err
}

func mapTransferError(err error) error {
	if errors.Is(err, fetch.ErrTransfer) {
		msg := strings.TrimPrefix(err.Error(), fetch.ErrTransfer.Error()+": ")
		return fmt.Errorf("%w: %s", ErrTransfer, msg)
	}
	return err
}

func failure(title string, err error) *DownloadResult {
	return &DownloadResult{
		Title: title,
		Error: err.Error(),
	}
}

func toBoundaryRecords(cat []catalog.FormatRecord) []FormatRecord {
	out := make([]FormatRecord, 0, len(cat))
	for _, r := range cat {
		out = append(out, FormatRecord{
			Itag:          r.Itag,
			Quality:       r.Quality,
			QualityLabel:  r.QualityLabel,
			MimeType:      r.MimeType,
			HasAudio:      r.HasAudio,
			HasVideo:      r.HasVideo,
			Bitrate:       r.Bitrate,
			ContentLength: r.ContentLength,
		})
	}
	return out
}

func parseInt64(raw string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
