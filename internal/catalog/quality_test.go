package catalog

import "testing"

func TestRankForBucketOrdering(t *testing.T) {
	lo, ok := RankForBucket("tiny")
	if !ok {
		t.Fatal("tiny should rank")
	}
	hi, ok := RankForBucket("highres")
	if !ok {
		t.Fatal("highres should rank")
	}
	if lo >= hi {
		t.Fatalf("tiny rank %d should be below highres rank %d", lo, hi)
	}
	if _, ok := RankForBucket("auto"); ok {
		t.Fatal("unknown bucket should not rank")
	}
}

func TestRankForLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string // bucket expected at the resolved rank
		ok    bool
	}{
		{"720p", "hd720", true},
		{"1080p60", "hd1080", true},
		{"480P", "large", true},
		{"2160p", "hd2160", true},
		{"608p", "hd720", true}, // nonstandard height snaps to the nearest bucket
		{"best", "", false},
		{"p", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			rank, ok := RankForLabel(tt.label)
			if ok != tt.ok {
				t.Fatalf("RankForLabel(%q) ok = %v, want %v", tt.label, ok, tt.ok)
			}
			if !ok {
				return
			}
			if got := bucketOrder[rank]; got != tt.want {
				t.Fatalf("RankForLabel(%q) bucket = %s, want %s", tt.label, got, tt.want)
			}
		})
	}
}

func TestLabelForRank(t *testing.T) {
	rank, _ := RankForBucket("hd720")
	if got := LabelForRank(rank); got != "720p" {
		t.Fatalf("LabelForRank(hd720) = %s, want 720p", got)
	}
	if got := LabelForRank(-1); got != "" {
		t.Fatalf("LabelForRank(-1) = %q, want empty", got)
	}
}

func TestRecordRankPrefersBucket(t *testing.T) {
	rec := FormatRecord{Quality: "hd720", QualityLabel: "1080p"}
	rank, ok := rec.Rank()
	if !ok {
		t.Fatal("record should rank")
	}
	if want, _ := RankForBucket("hd720"); rank != want {
		t.Fatalf("Rank() = %d, want the bucket rank %d", rank, want)
	}

	rec = FormatRecord{QualityLabel: "1080p"}
	rank, ok = rec.Rank()
	if !ok {
		t.Fatal("label fallback should rank")
	}
	if want, _ := RankForBucket("hd1080"); rank != want {
		t.Fatalf("Rank() = %d, want the label rank %d", rank, want)
	}
}
