// Package catalog normalizes a raw player response into the set of
// fetchable stream descriptors.
package catalog

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ytgrab/ytgrab/internal/innertube"
)

// ErrEmpty is returned when no valid record survives normalization,
// distinct from a negotiation failure.
var ErrEmpty = errors.New("no formats available")

// Decipherer resolves a cipher-protected stream URL. A nil capability
// means ciphered records are excluded from the catalog.
type Decipherer interface {
	StreamURL(signatureCipher string) (string, error)
}

// FormatRecord is one normalized stream descriptor.
type FormatRecord struct {
	Itag          int
	URL           string
	MimeType      string
	Quality       string // ordinal bucket, e.g. "hd720"
	QualityLabel  string // e.g. "720p"
	HasAudio      bool
	HasVideo      bool
	Bitrate       int
	ContentLength int64
}

// Builder turns player responses into catalogs.
type Builder struct {
	// Decipher is the optional signature-deciphering capability.
	Decipher Decipherer
}

// Build walks the muxed and adaptive stream containers, normalizes
// each entry, drops records that cannot be resolved to a fetchable
// address or that carry neither audio nor video, and deduplicates by
// itag keeping the first occurrence. Insertion order follows the order
// the API listed them.
func (b Builder) Build(resp *innertube.PlayerResponse) ([]FormatRecord, error) {
	if resp == nil {
		return nil, ErrEmpty
	}

	var out []FormatRecord
	seen := make(map[int]struct{})

	add := func(raw innertube.Format, muxed bool) {
		if _, dup := seen[raw.Itag]; dup {
			return
		}

		rec := FormatRecord{
			Itag:         raw.Itag,
			URL:          raw.URL,
			MimeType:     raw.MimeType,
			Quality:      raw.Quality,
			QualityLabel: raw.QualityLabel,
			Bitrate:      raw.Bitrate,
		}
		if rec.Bitrate == 0 {
			rec.Bitrate = raw.AverageBitrate
		}
		if raw.ContentLength != "" {
			rec.ContentLength, _ = strconv.ParseInt(raw.ContentLength, 10, 64)
		}

		if muxed {
			rec.HasAudio, rec.HasVideo = true, true
		} else {
			rec.HasAudio = strings.HasPrefix(raw.MimeType, "audio/")
			rec.HasVideo = strings.HasPrefix(raw.MimeType, "video/")
		}
		if !rec.HasAudio && !rec.HasVideo {
			return
		}

		if rec.URL == "" {
			cipher := raw.SignatureCipher
			if cipher == "" {
				cipher = raw.Cipher
			}
			if cipher == "" || b.Decipher == nil {
				return
			}
			resolved, err := b.Decipher.StreamURL(cipher)
			if err != nil || resolved == "" {
				return
			}
			rec.URL = resolved
		}

		seen[raw.Itag] = struct{}{}
		out = append(out, rec)
	}

	for _, f := range resp.StreamingData.Formats {
		add(f, true)
	}
	for _, f := range resp.StreamingData.AdaptiveFormats {
		add(f, false)
	}

	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
