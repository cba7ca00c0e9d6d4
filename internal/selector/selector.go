// Package selector deterministically picks the catalog record(s) best
// matching a requested quality token.
package selector

import (
	"errors"

	"github.com/ytgrab/ytgrab/internal/catalog"
)

// Sentinel quality tokens.
const (
	QualityBest  = "best"
	QualityWorst = "worst"
)

// ErrNoSuitableFormat is returned only for an empty catalog; a
// non-empty catalog always yields a selection.
var ErrNoSuitableFormat = errors.New("no suitable format")

// Selection is the outcome of quality selection. Primary is always
// set. Companion is set only for a paired adaptive video+audio
// selection, to be combined (or reported as two files) downstream.
type Selection struct {
	Primary   catalog.FormatRecord
	Companion *catalog.FormatRecord

	// Label is the quality label actually selected. Substituted is true
	// when the requested label was absent and the nearest bucket was
	// chosen instead; the substitution is part of the result contract,
	// never silent.
	Label       string
	Substituted bool
}

// Select resolves the requested quality against the catalog.
// Audio-only requests ignore the quality token: audio quality is not
// expressed through the resolution vocabulary, so best-audio is the
// implicit policy, falling back to the highest-audio-bitrate muxed
// record when no audio-only stream exists.
func Select(cat []catalog.FormatRecord, requested string, audioOnly bool) (Selection, error) {
	if len(cat) == 0 {
		return Selection{}, ErrNoSuitableFormat
	}

	if audioOnly {
		return selectAudio(cat), nil
	}

	switch requested {
	case "", QualityBest:
		return selectExtreme(cat, true), nil
	case QualityWorst:
		return selectExtreme(cat, false), nil
	}
	return selectLabel(cat, requested)
}

func selectAudio(cat []catalog.FormatRecord) Selection {
	if rec, ok := pickBest(cat, func(r catalog.FormatRecord) bool {
		return r.HasAudio && !r.HasVideo
	}, byBitrate); ok {
		return Selection{Primary: rec, Label: rec.QualityLabel}
	}
	// No adaptive audio stream: fall back to the muxed record with the
	// highest bitrate.
	rec, _ := pickBest(cat, func(r catalog.FormatRecord) bool {
		return r.HasAudio
	}, byBitrate)
	return Selection{Primary: rec, Label: rec.QualityLabel}
}

func selectExtreme(cat []catalog.FormatRecord, best bool) Selection {
	target, ok := extremeRank(cat, best)
	if !ok {
		// No ranked video record; fall back to the plain bitrate order
		// over whatever carries video, else audio.
		if rec, found := pickBest(cat, func(r catalog.FormatRecord) bool { return r.HasVideo }, byBitrate); found {
			return finishVideoSelection(cat, rec, rec.QualityLabel, false)
		}
		return selectAudio(cat)
	}
	return selectAtRank(cat, target, rankLabel(cat, target), false)
}

func selectLabel(cat []catalog.FormatRecord, label string) (Selection, error) {
	want, ok := catalog.RankForLabel(label)
	if !ok {
		// Unrecognized token behaves like "best"; the selected label in
		// the result makes the substitution observable.
		sel := selectExtreme(cat, true)
		sel.Substituted = true
		return sel, nil
	}

	present := presentRanks(cat)
	if len(present) == 0 {
		sel := selectExtreme(cat, true)
		sel.Substituted = true
		return sel, nil
	}

	// Nearest rank by absolute ordinal distance, ties broken toward the
	// higher resolution.
	chosen, chosenDist := -1, 0
	for _, r := range present {
		d := r - want
		if d < 0 {
			d = -d
		}
		if chosen < 0 || d < chosenDist || (d == chosenDist && r > chosen) {
			chosen, chosenDist = r, d
		}
	}

	sel := selectAtRank(cat, chosen, rankLabel(cat, chosen), chosen != want)
	return sel, nil
}

// selectAtRank picks the record(s) serving one quality rank: a muxed
// record when one exists there, otherwise the best adaptive video at
// that rank paired with the best adaptive audio stream.
func selectAtRank(cat []catalog.FormatRecord, rank int, label string, substituted bool) Selection {
	if rec, ok := pickBest(cat, func(r catalog.FormatRecord) bool {
		return r.HasVideo && r.HasAudio && atRank(r, rank)
	}, byBitrate); ok {
		return Selection{Primary: rec, Label: label, Substituted: substituted}
	}

	rec, _ := pickBest(cat, func(r catalog.FormatRecord) bool {
		return r.HasVideo && atRank(r, rank)
	}, byBitrate)
	return finishVideoSelection(cat, rec, label, substituted)
}

func finishVideoSelection(cat []catalog.FormatRecord, video catalog.FormatRecord, label string, substituted bool) Selection {
	sel := Selection{Primary: video, Label: label, Substituted: substituted}
	if video.HasAudio {
		return sel
	}
	if audio, ok := pickBest(cat, func(r catalog.FormatRecord) bool {
		return r.HasAudio && !r.HasVideo
	}, byBitrate); ok {
		sel.Companion = &audio
	}
	return sel
}

func atRank(r catalog.FormatRecord, rank int) bool {
	got, ok := r.Rank()
	return ok && got == rank
}

func extremeRank(cat []catalog.FormatRecord, best bool) (int, bool) {
	found := false
	target := 0
	for _, r := range cat {
		if !r.HasVideo {
			continue
		}
		rank, ok := r.Rank()
		if !ok {
			continue
		}
		if !found || (best && rank > target) || (!best && rank < target) {
			target, found = rank, true
		}
	}
	return target, found
}

func presentRanks(cat []catalog.FormatRecord) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range cat {
		if !r.HasVideo {
			continue
		}
		rank, ok := r.Rank()
		if !ok {
			continue
		}
		if _, dup := seen[rank]; dup {
			continue
		}
		seen[rank] = struct{}{}
		out = append(out, rank)
	}
	return out
}

// rankLabel prefers the label the catalog itself advertises for a rank
// over the canonical one.
func rankLabel(cat []catalog.FormatRecord, rank int) string {
	for _, r := range cat {
		if r.QualityLabel != "" && atRank(r, rank) {
			return r.QualityLabel
		}
	}
	return catalog.LabelForRank(rank)
}

// pickBest scans in catalog order and keeps the candidate winning the
// comparison, so equal candidates resolve to the earliest listing and
// repeated calls stay deterministic.
func pickBest(cat []catalog.FormatRecord, match func(catalog.FormatRecord) bool, better func(a, b catalog.FormatRecord) bool) (catalog.FormatRecord, bool) {
	var best catalog.FormatRecord
	found := false
	for _, r := range cat {
		if !match(r) {
			continue
		}
		if !found || better(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

func byBitrate(a, b catalog.FormatRecord) bool {
	if a.Bitrate != b.Bitrate {
		return a.Bitrate > b.Bitrate
	}
	return false
}
