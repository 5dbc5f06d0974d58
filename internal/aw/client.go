// Package aw fetches window and AFK events from an ActivityWatch server.
package aw

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/hmoravej/pagewatch/internal/model"
)

// ErrSourceUnavailable means the tracking server could not deliver the
// event history. Fatal; the pipeline aborts.
var ErrSourceUnavailable = errors.New("event source unavailable")

const (
	windowBucketPrefix = "aw-watcher-window_"
	afkBucketPrefix    = "aw-watcher-afk_"

	// DefaultServerURL is where a local ActivityWatch instance listens.
	DefaultServerURL = "http://localhost:5600"

	// DefaultEventLimit bounds a single bucket fetch.
	DefaultEventLimit = 10000

	// DefaultViewerApp is the window class reported by zathura.
	DefaultViewerApp = "org.pwmt.zathura"
)

// Client queries the ActivityWatch REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	viewerApp  string
	limit      int
	progress   bool
}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	ServerURL string
	ViewerApp string
	Limit     int
	Timeout   time.Duration
	Progress  bool
}

// NewClient builds a client for the given server.
func NewClient(opts Options) *Client {
	if opts.ServerURL == "" {
		opts.ServerURL = DefaultServerURL
	}
	if opts.ViewerApp == "" {
		opts.ViewerApp = DefaultViewerApp
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultEventLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.ServerURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		viewerApp:  opts.ViewerApp,
		limit:      opts.Limit,
		progress:   opts.Progress,
	}
}

type event struct {
	Timestamp time.Time `json:"timestamp"`
	Duration  float64   `json:"duration"`
	Data      struct {
		App    string `json:"app"`
		Title  string `json:"title"`
		Status string `json:"status"`
	} `json:"data"`
}

type interval struct {
	start time.Time
	end   time.Time
}

// FetchViewerEvents returns the viewer's window events in chronological
// order. Events that fall outside every not-AFK interval keep their place
// in the stream but carry zero duration: idle time never counts as reading.
func (c *Client) FetchViewerEvents(ctx context.Context) ([]model.RawEvent, error) {
	windowBucket, afkBucket, err := c.discoverBuckets(ctx)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if c.progress {
		bar = progressbar.Default(2, "fetching events")
	}

	afkEvents, err := c.fetchBucketEvents(ctx, afkBucket)
	if err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Add(1)
	}
	windowEvents, err := c.fetchBucketEvents(ctx, windowBucket)
	if err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Add(1)
	}

	active := activeIntervals(afkEvents)

	var out []model.RawEvent
	for _, ev := range windowEvents {
		if ev.Data.App != c.viewerApp {
			continue
		}
		dur := ev.Duration
		if !withinAny(active, ev.Timestamp) {
			dur = 0
		}
		out = append(out, model.RawEvent{
			Timestamp:   ev.Timestamp,
			Duration:    dur,
			WindowTitle: ev.Data.Title,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}

func (c *Client) discoverBuckets(ctx context.Context) (windowBucket, afkBucket string, err error) {
	var buckets map[string]json.RawMessage
	if err := c.getJSON(ctx, "/api/0/buckets", nil, &buckets); err != nil {
		return "", "", err
	}
	for id := range buckets {
		switch {
		case strings.HasPrefix(id, windowBucketPrefix) && windowBucket == "":
			windowBucket = id
		case strings.HasPrefix(id, afkBucketPrefix) && afkBucket == "":
			afkBucket = id
		}
	}
	if windowBucket == "" || afkBucket == "" {
		return "", "", fmt.Errorf("%w: window/AFK watcher buckets not found, is ActivityWatch running?", ErrSourceUnavailable)
	}
	return windowBucket, afkBucket, nil
}

func (c *Client) fetchBucketEvents(ctx context.Context, bucketID string) ([]event, error) {
	params := url.Values{"limit": {strconv.Itoa(c.limit)}}
	var events []event
	path := fmt.Sprintf("/api/0/buckets/%s/events", url.PathEscape(bucketID))
	if err := c.getJSON(ctx, path, params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, target any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %s from %s", ErrSourceUnavailable, resp.Status, u)
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrSourceUnavailable, err)
	}
	return nil
}

func activeIntervals(afkEvents []event) []interval {
	var out []interval
	for _, ev := range afkEvents {
		if ev.Data.Status != "not-afk" {
			continue
		}
		out = append(out, interval{
			start: ev.Timestamp,
			end:   ev.Timestamp.Add(time.Duration(ev.Duration * float64(time.Second))),
		})
	}
	return out
}

func withinAny(intervals []interval, t time.Time) bool {
	for _, iv := range intervals {
		if !t.Before(iv.start) && !t.After(iv.end) {
			return true
		}
	}
	return false
}
