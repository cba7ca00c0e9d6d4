package catalog

import (
	"strconv"
	"strings"
)

// The platform's ordinal quality buckets, lowest first. Rank positions
// define the strict ordering used for best/worst resolution and
// nearest-match fallback.
var bucketOrder = []string{
	"tiny",    // 144p
	"small",   // 240p
	"medium",  // 360p
	"large",   // 480p
	"hd720",
	"hd1080",
	"hd1440",
	"hd2160",
	"highres",
}

var bucketHeights = map[string]int{
	"tiny":    144,
	"small":   240,
	"medium":  360,
	"large":   480,
	"hd720":   720,
	"hd1080":  1080,
	"hd1440":  1440,
	"hd2160":  2160,
	"highres": 4320,
}

var rankByBucket = func() map[string]int {
	m := make(map[string]int, len(bucketOrder))
	for i, b := range bucketOrder {
		m[b] = i
	}
	return m
}()

// RankForBucket maps an ordinal bucket name to its rank.
func RankForBucket(bucket string) (int, bool) {
	r, ok := rankByBucket[strings.ToLower(strings.TrimSpace(bucket))]
	return r, ok
}

// RankForLabel maps a resolution label such as "720p" or "1080p60" to
// the rank of the bucket whose nominal height is nearest, preferring
// the higher bucket on an exact midpoint.
func RankForLabel(label string) (int, bool) {
	h, ok := labelHeight(label)
	if !ok {
		return 0, false
	}
	bestRank, bestDist := -1, 0
	for i, b := range bucketOrder {
		d := bucketHeights[b] - h
		if d < 0 {
			d = -d
		}
		if bestRank < 0 || d < bestDist || (d == bestDist && i > bestRank) {
			bestRank, bestDist = i, d
		}
	}
	return bestRank, true
}

// LabelForRank returns the canonical "NNNp" label of a rank.
func LabelForRank(rank int) string {
	if rank < 0 || rank >= len(bucketOrder) {
		return ""
	}
	return strconv.Itoa(bucketHeights[bucketOrder[rank]]) + "p"
}

func labelHeight(label string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(label))
	p := strings.IndexByte(s, 'p')
	if p <= 0 {
		return 0, false
	}
	h, err := strconv.Atoi(s[:p])
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}

// Rank resolves a record's position in the quality ordering, deriving
// it from the quality bucket first and the label as a fallback.
func (r FormatRecord) Rank() (int, bool) {
	if rank, ok := RankForBucket(r.Quality); ok {
		return rank, ok
	}
	return RankForLabel(r.QualityLabel)
}
