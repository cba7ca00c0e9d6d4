package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type stubMuxer struct {
	available bool
	err       error
	calls     int
}

func (m *stubMuxer) Available() bool { return m.available }

func (m *stubMuxer) Merge(ctx context.Context, videoPath, audioPath, outputPath, title, author string) error {
	m.calls++
	if m.err != nil {
		return m.err
	}
	v, err := os.ReadFile(videoPath)
	if err != nil {
		return err
	}
	a, err := os.ReadFile(audioPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, append(v, a...), 0o644); err != nil {
		return err
	}
	os.Remove(videoPath)
	os.Remove(audioPath)
	return nil
}

func pairServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/video":
			fmt.Fprint(w, "video-bytes")
		case "/audio":
			fmt.Fprint(w, "audio-bytes")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPairWithoutMuxerKeepsBothFiles(t *testing.T) {
	srv := pairServer(t)
	dir := t.TempDir()

	res, err := fastEngine().FetchPair(context.Background(),
		Task{URL: srv.URL + "/video", OutputDir: dir, FileName: "clip.f137.mp4"},
		Task{URL: srv.URL + "/audio", OutputDir: dir, FileName: "clip.f140.m4a"},
		nil, "clip.mp4", "title", "author")
	if err != nil {
		t.Fatalf("FetchPair() error = %v", err)
	}
	if res.Merged {
		t.Fatal("no muxer: result must not claim a merge")
	}
	if len(res.Paths) != 2 {
		t.Fatalf("Paths = %v, want both sub-stream files", res.Paths)
	}
	if res.Bytes != int64(len("video-bytes")+len("audio-bytes")) {
		t.Fatalf("Bytes = %d", res.Bytes)
	}
	for _, p := range res.Paths {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("missing finalized leg %s: %v", p, err)
		}
	}
}

func TestFetchPairMergesWhenMuxerAvailable(t *testing.T) {
	srv := pairServer(t)
	dir := t.TempDir()
	mux := &stubMuxer{available: true}

	res, err := fastEngine().FetchPair(context.Background(),
		Task{URL: srv.URL + "/video", OutputDir: dir, FileName: "clip.f137.mp4"},
		Task{URL: srv.URL + "/audio", OutputDir: dir, FileName: "clip.f140.m4a"},
		mux, "clip.mp4", "title", "author")
	if err != nil {
		t.Fatalf("FetchPair() error = %v", err)
	}
	if !res.Merged || mux.calls != 1 {
		t.Fatalf("Merged = %v muxer calls = %d, want one merge", res.Merged, mux.calls)
	}
	if len(res.Paths) != 1 || res.Paths[0] != filepath.Join(dir, "clip.mp4") {
		t.Fatalf("Paths = %v, want the single merged output", res.Paths)
	}
	data, err := os.ReadFile(res.Paths[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "video-bytesaudio-bytes" {
		t.Fatalf("merged content = %q", data)
	}
}

func TestFetchPairMergeFailureFallsBackToDualFile(t *testing.T) {
	srv := pairServer(t)
	dir := t.TempDir()
	mux := &stubMuxer{available: true, err: errors.New("remux failed")}

	res, err := fastEngine().FetchPair(context.Background(),
		Task{URL: srv.URL + "/video", OutputDir: dir, FileName: "clip.f137.mp4"},
		Task{URL: srv.URL + "/audio", OutputDir: dir, FileName: "clip.f140.m4a"},
		mux, "clip.mp4", "title", "author")
	if err != nil {
		t.Fatalf("FetchPair() error = %v, want the dual-file fallback", err)
	}
	if res.Merged || len(res.Paths) != 2 {
		t.Fatalf("result = %+v, want both legs kept", res)
	}
}

func TestFetchPairAudioLegFailureKeepsRootDiagnostic(t *testing.T) {
	// The audio leg is rejected immediately while the video leg is
	// mid-transfer; the cancellation of the video leg must not mask the
	// rejection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/video" {
			time.Sleep(150 * time.Millisecond)
			fmt.Fprint(w, "video-bytes")
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	dir := t.TempDir()

	_, err := fastEngine().FetchPair(context.Background(),
		Task{URL: srv.URL + "/video", OutputDir: dir, FileName: "clip.f137.mp4"},
		Task{URL: srv.URL + "/audio", OutputDir: dir, FileName: "clip.f140.m4a"},
		nil, "clip.mp4", "title", "author")
	if !errors.Is(err, ErrTransfer) {
		t.Fatalf("FetchPair() error = %v, want ErrTransfer", err)
	}
	if !strings.Contains(err.Error(), "status=403") {
		t.Fatalf("FetchPair() error = %v, want the rejected leg's diagnostic", err)
	}
	if strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("FetchPair() error = %v, cancellation must not mask the root cause", err)
	}
}

func TestFetchPairFailingLegRemovesTheOther(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/video" {
			fmt.Fprint(w, "video-bytes")
			return
		}
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	dir := t.TempDir()

	_, err := fastEngine().FetchPair(context.Background(),
		Task{URL: srv.URL + "/video", OutputDir: dir, FileName: "clip.f137.mp4"},
		Task{URL: srv.URL + "/audio", OutputDir: dir, FileName: "clip.f140.m4a"},
		nil, "clip.mp4", "title", "author")
	if !errors.Is(err, ErrTransfer) {
		t.Fatalf("FetchPair() error = %v, want ErrTransfer", err)
	}

	entries, readErr := os.ReadDir(dir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("directory not clean after failed pair: %v", entries)
	}
}
