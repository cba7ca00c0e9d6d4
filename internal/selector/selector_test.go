package selector

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ytgrab/ytgrab/internal/catalog"
)

func muxed(itag int, bucket, label string, bitrate int) catalog.FormatRecord {
	return catalog.FormatRecord{
		Itag: itag, URL: "https://cdn/" + label, MimeType: "video/mp4",
		Quality: bucket, QualityLabel: label, HasAudio: true, HasVideo: true, Bitrate: bitrate,
	}
}

func video(itag int, bucket, label string, bitrate int) catalog.FormatRecord {
	return catalog.FormatRecord{
		Itag: itag, URL: "https://cdn/" + label, MimeType: "video/mp4",
		Quality: bucket, QualityLabel: label, HasVideo: true, Bitrate: bitrate,
	}
}

func audio(itag, bitrate int) catalog.FormatRecord {
	return catalog.FormatRecord{
		Itag: itag, URL: "https://cdn/audio", MimeType: "audio/mp4",
		HasAudio: true, Bitrate: bitrate,
	}
}

func TestSelectEmptyCatalog(t *testing.T) {
	if _, err := Select(nil, QualityBest, false); !errors.Is(err, ErrNoSuitableFormat) {
		t.Fatalf("Select() error = %v, want ErrNoSuitableFormat", err)
	}
}

func TestSelectBestPrefersMuxedAtTopRank(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(18, "medium", "360p", 500_000),
		muxed(22, "hd720", "720p", 2_000_000),
		audio(140, 128_000),
	}

	sel, err := Select(cat, QualityBest, false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 22 || sel.Companion != nil {
		t.Fatalf("Select(best) = itag %d companion %v, want muxed 22 alone", sel.Primary.Itag, sel.Companion)
	}
	if sel.Label != "720p" || sel.Substituted {
		t.Fatalf("Label = %q Substituted = %v, want 720p without substitution", sel.Label, sel.Substituted)
	}
}

func TestSelectBestPairsAdaptiveWhenNoMuxedAtTopRank(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(22, "hd720", "720p", 2_000_000),
		video(137, "hd1080", "1080p", 4_000_000),
		audio(140, 128_000),
		audio(251, 160_000),
	}

	sel, err := Select(cat, QualityBest, false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 137 {
		t.Fatalf("Primary itag = %d, want the 1080p video leg", sel.Primary.Itag)
	}
	if sel.Companion == nil || sel.Companion.Itag != 251 {
		t.Fatalf("Companion = %v, want the highest-bitrate audio leg (251)", sel.Companion)
	}
	if sel.Label != "1080p" {
		t.Fatalf("Label = %q, want 1080p", sel.Label)
	}
}

func TestSelectWorst(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(22, "hd720", "720p", 2_000_000),
		muxed(17, "tiny", "144p", 80_000),
		muxed(18, "medium", "360p", 500_000),
	}

	sel, err := Select(cat, QualityWorst, false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 17 || sel.Label != "144p" {
		t.Fatalf("Select(worst) = itag %d label %q, want 17 / 144p", sel.Primary.Itag, sel.Label)
	}
}

func TestSelectExactLabel(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(18, "medium", "360p", 500_000),
		muxed(22, "hd720", "720p", 2_000_000),
	}

	sel, err := Select(cat, "360p", false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 18 || sel.Substituted {
		t.Fatalf("Select(360p) = itag %d substituted %v, want exact 18", sel.Primary.Itag, sel.Substituted)
	}
}

func TestSelectNearestTieBreaksTowardHigher(t *testing.T) {
	// 480p sits midway between 360p and 720p in ordinal distance; the
	// higher resolution wins the tie.
	cat := []catalog.FormatRecord{
		muxed(17, "tiny", "144p", 80_000),
		muxed(18, "medium", "360p", 500_000),
		muxed(22, "hd720", "720p", 2_000_000),
	}

	sel, err := Select(cat, "480p", false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 22 {
		t.Fatalf("Select(480p) itag = %d, want 22 (720p)", sel.Primary.Itag)
	}
	if !sel.Substituted || sel.Label != "720p" {
		t.Fatalf("Label = %q Substituted = %v, want an observable 720p substitution", sel.Label, sel.Substituted)
	}
}

func TestSelectNearestBelowWhenCloser(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(18, "medium", "360p", 500_000),
		muxed(37, "hd1080", "1080p", 4_000_000),
	}

	sel, err := Select(cat, "480p", false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 18 || !sel.Substituted {
		t.Fatalf("Select(480p) = itag %d substituted %v, want 18 (360p is one step away)", sel.Primary.Itag, sel.Substituted)
	}
}

func TestSelectUnrecognizedTokenBehavesLikeBest(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(18, "medium", "360p", 500_000),
		muxed(22, "hd720", "720p", 2_000_000),
	}

	sel, err := Select(cat, "ultra", false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 22 || !sel.Substituted {
		t.Fatalf("Select(ultra) = itag %d substituted %v, want best with substitution flagged", sel.Primary.Itag, sel.Substituted)
	}
}

func TestSelectAudioOnlyPicksBestBitrate(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(22, "hd720", "720p", 2_000_000),
		audio(140, 128_000),
		audio(251, 160_000),
	}

	sel, err := Select(cat, QualityBest, true)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 251 || sel.Companion != nil {
		t.Fatalf("Select(audio) = itag %d companion %v, want 251 alone", sel.Primary.Itag, sel.Companion)
	}
}

func TestSelectAudioOnlyFallsBackToMuxed(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(18, "medium", "360p", 500_000),
		muxed(22, "hd720", "720p", 2_000_000),
	}

	sel, err := Select(cat, "", true)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 22 {
		t.Fatalf("Select(audio) itag = %d, want the highest-bitrate muxed record", sel.Primary.Itag)
	}
}

func TestSelectDeterministic(t *testing.T) {
	cat := []catalog.FormatRecord{
		muxed(22, "hd720", "720p", 2_000_000),
		video(137, "hd1080", "1080p", 4_000_000),
		audio(140, 128_000),
		muxed(18, "medium", "360p", 500_000),
	}

	first, err := Select(cat, QualityBest, false)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Select(cat, QualityBest, false)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Select() is not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestSelectEqualBitrateKeepsCatalogOrder(t *testing.T) {
	a := audio(140, 128_000)
	b := audio(171, 128_000)

	sel, err := Select([]catalog.FormatRecord{a, b}, "", true)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if sel.Primary.Itag != 140 {
		t.Fatalf("Select() itag = %d, want the earlier listing on a bitrate tie", sel.Primary.Itag)
	}
}
