package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/officialai/aggregator/internal/sources"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Example Blog</title>
<item>
<title>Introducing the new model</title>
<link>https://example.com/news/new-model</link>
<guid>news-1</guid>
<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
<description>&lt;p&gt;A &lt;b&gt;big&lt;/b&gt; step forward.&lt;/p&gt;</description>
</item>
<item>
<title>No link item</title>
<guid>news-2</guid>
</item>
</channel>
</rss>`

func TestFetchFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	items, err := f.FetchFeed(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchFeed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item (link-less entries dropped), got %d", len(items))
	}

	it := items[0]
	if it.Title != "Introducing the new model" {
		t.Errorf("title = %q", it.Title)
	}
	if it.GUID != "news-1" {
		t.Errorf("guid = %q", it.GUID)
	}
	if it.Published.IsZero() {
		t.Error("expected parsed publish date")
	}
	if it.Snippet != "A big step forward." {
		t.Errorf("snippet should strip markup, got %q", it.Snippet)
	}
}

func TestFetchFeedRetriesBlockedUserAgent(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if !strings.Contains(r.UserAgent(), "Mozilla") {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	items, err := f.FetchFeed(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchFeed after retry: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestFetchFeedHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	_, err := f.FetchFeed(context.Background(), srv.URL)

	var ferr *Error
	if !errors.As(err, &ferr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if ferr.Kind != KindHTTPStatus || ferr.Status != http.StatusInternalServerError {
		t.Errorf("kind=%s status=%d", ferr.Kind, ferr.Status)
	}
}

func TestScrapePage(t *testing.T) {
	page := `<html><body>
	<nav><a href="/news/">News</a></nav>
	<a href="/news/model-launch">Model launch: our biggest release</a>
	<a href="/news/model-launch">Model launch: our biggest release</a>
	<a href="/news/safety-update#section">Safety update for enterprise</a>
	<a href="/careers/engineer">Engineer opening</a>
	<a href="https://twitter.com/news/external">External post about models</a>
	<a href="/news/x">x</a>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	feed := sources.Feed{URL: srv.URL + "/news/", Kind: sources.KindHTML}
	items, err := f.ScrapePage(context.Background(), feed, 10)
	if err != nil {
		t.Fatalf("ScrapePage: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d: %+v", len(items), items)
	}
	if items[0].Title != "Model launch: our biggest release" {
		t.Errorf("first title = %q", items[0].Title)
	}
	// Fragments are stripped before dedup.
	if strings.Contains(items[1].Link, "#") {
		t.Errorf("fragment not stripped: %s", items[1].Link)
	}
}

func TestScrapePageLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		b.WriteString(`<a href="/news/article-` + strings.Repeat("x", i+1) + `">Some long headline number ` + strings.Repeat("x", i+1) + `</a>`)
	}
	b.WriteString("</body></html>")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(b.String()))
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	feed := sources.Feed{URL: srv.URL + "/news/", Kind: sources.KindHTML}
	items, err := f.ScrapePage(context.Background(), feed, 5)
	if err != nil {
		t.Fatalf("ScrapePage: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("limit not enforced, got %d items", len(items))
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := New(5 * time.Second)

	status, err := f.Probe(context.Background(), srv.URL+"/live")
	if err != nil || status != http.StatusOK {
		t.Errorf("live probe: status=%d err=%v", status, err)
	}

	status, err = f.Probe(context.Background(), srv.URL+"/gone")
	if err != nil || status != http.StatusNotFound {
		t.Errorf("gone probe: status=%d err=%v", status, err)
	}
}
