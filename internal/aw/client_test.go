package aw

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testTimeLayout = "2006-01-02T15:04:05Z"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/0/buckets", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"aw-watcher-afk_laptop": {},
			"aw-watcher-window_laptop": {},
			"aw-watcher-web_firefox": {}
		}`)
	})
	mux.HandleFunc("/api/0/buckets/aw-watcher-afk_laptop/events", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"timestamp": "2024-03-01T10:00:00Z", "duration": 600, "data": {"status": "not-afk"}},
			{"timestamp": "2024-03-01T10:10:00Z", "duration": 300, "data": {"status": "afk"}}
		]`)
	})
	mux.HandleFunc("/api/0/buckets/aw-watcher-window_laptop/events", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10000" {
			t.Errorf("limit = %q, want 10000", got)
		}
		fmt.Fprint(w, `[
			{"timestamp": "2024-03-01T10:05:00Z", "duration": 45, "data": {"app": "org.pwmt.zathura", "title": "algorithms.pdf [336/612]"}},
			{"timestamp": "2024-03-01T10:01:00Z", "duration": 30, "data": {"app": "org.pwmt.zathura", "title": "algorithms.pdf [335/612]"}},
			{"timestamp": "2024-03-01T10:02:00Z", "duration": 200, "data": {"app": "firefox", "title": "news"}},
			{"timestamp": "2024-03-01T10:12:00Z", "duration": 60, "data": {"app": "org.pwmt.zathura", "title": "algorithms.pdf [337/612]"}}
		]`)
	})
	return httptest.NewServer(mux)
}

func TestFetchViewerEvents(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	client := NewClient(Options{ServerURL: srv.URL})
	events, err := client.FetchViewerEvents(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 viewer events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.Before(events[i-1].Timestamp) {
			t.Fatalf("events not chronological: %+v", events)
		}
	}
	if events[0].WindowTitle != "algorithms.pdf [335/612]" || events[0].Duration != 30 {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	// 10:12 is outside the single not-afk interval (10:00-10:10): the event
	// stays but its duration must not count.
	last := events[2]
	ts, _ := time.Parse(testTimeLayout, "2024-03-01T10:12:00Z")
	if !last.Timestamp.Equal(ts) {
		t.Fatalf("unexpected last event %+v", last)
	}
	if last.Duration != 0 {
		t.Fatalf("AFK-classified event duration = %v, want 0", last.Duration)
	}
}

func TestFetchViewerEventsServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Options{ServerURL: srv.URL})
	_, err := client.FetchViewerEvents(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFetchViewerEventsMissingBuckets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"aw-watcher-web_firefox": {}}`)
	}))
	defer srv.Close()

	client := NewClient(Options{ServerURL: srv.URL})
	_, err := client.FetchViewerEvents(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestFetchViewerEventsUnreachable(t *testing.T) {
	client := NewClient(Options{ServerURL: "http://127.0.0.1:1", Timeout: 500 * time.Millisecond})
	_, err := client.FetchViewerEvents(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}
