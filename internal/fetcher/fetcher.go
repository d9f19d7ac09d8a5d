// Package fetcher handles every outbound HTTP call the pipeline makes: feed
// parsing, landing-page scraping, article page downloads and URL probing.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/officialai/aggregator/internal/logger"
	"github.com/officialai/aggregator/internal/sources"
)

// ErrorKind partitions fetch failures so callers can decide between skip,
// retry and report.
type ErrorKind string

const (
	KindTimeout    ErrorKind = "timeout"
	KindHTTPStatus ErrorKind = "http_status"
	KindParse      ErrorKind = "parse"
)

// Error is a fetch failure annotated with its kind and origin URL.
type Error struct {
	Kind   ErrorKind
	Status int // set for KindHTTPStatus
	URL    string
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Item is one harvested entry before normalization into a Record.
type Item struct {
	Title     string
	Link      string
	GUID      string
	Published time.Time
	Snippet   string
}

// Fetcher wraps an HTTP client with the headers modern news sites expect.
// Several feeds 403 plain Go clients, so requests impersonate a browser.
type Fetcher struct {
	client *http.Client
	parser *gofeed.Parser
	log    *slog.Logger
}

func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
		log:    logger.With("fetcher"),
	}
}

const browserUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func browserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", browserUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
}

func feedHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "OfficialAI-Aggregator/1.0 (+https://official.ai)")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
}

// FetchFeed downloads and parses an RSS/Atom feed. A 403 or 404 on the polite
// feed-reader headers is retried once with browser headers before giving up,
// since some CDNs block anything that self-identifies as a bot.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) ([]Item, error) {
	body, err := f.get(ctx, feedURL, feedHeaders)
	if err != nil {
		var ferr *Error
		if errors.As(err, &ferr) && ferr.Kind == KindHTTPStatus && (ferr.Status == http.StatusForbidden || ferr.Status == http.StatusNotFound) {
			f.log.Debug("feed blocked, retrying with browser headers", "url", feedURL, "status", ferr.Status)
			body, err = f.get(ctx, feedURL, browserHeaders)
		}
		if err != nil {
			return nil, err
		}
	}

	feed, err := f.parser.ParseString(body)
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: feedURL, Err: err}
	}

	items := make([]Item, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := Item{
			Title:   strings.TrimSpace(it.Title),
			Link:    strings.TrimSpace(it.Link),
			GUID:    it.GUID,
			Snippet: snippet(it),
		}
		if it.PublishedParsed != nil {
			item.Published = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.Published = *it.UpdatedParsed
		}
		if item.Link == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// snippet prefers the description over full content and strips markup.
func snippet(it *gofeed.Item) string {
	raw := it.Description
	if raw == "" {
		raw = it.Content
	}
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// ScrapePage harvests article links from a landing page for sources without a
// usable feed. Links qualify when their path matches one of the feed's path
// patterns, their anchor text looks like a headline, and they stay on-site.
func (f *Fetcher) ScrapePage(ctx context.Context, feed sources.Feed, limit int) ([]Item, error) {
	body, err := f.get(ctx, feed.URL, browserHeaders)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: feed.URL, Err: err}
	}

	base, err := url.Parse(feed.URL)
	if err != nil {
		return nil, &Error{Kind: KindParse, URL: feed.URL, Err: err}
	}

	patterns := feed.ScrapePathPatterns()
	denylist := feed.ScrapeDenylist()

	seen := make(map[string]bool)
	var items []Item

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return true
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		if abs.Host != base.Host {
			return true
		}

		link := abs.String()
		if seen[link] || link == feed.URL {
			return true
		}
		if !matchesPattern(abs.Path, patterns) {
			return true
		}

		title := strings.Join(strings.Fields(s.Text()), " ")
		if len([]rune(title)) < 5 || denied(title, denylist) {
			return true
		}

		seen[link] = true
		items = append(items, Item{Title: title, Link: link, GUID: link})
		return len(items) < limit
	})

	f.log.Debug("scraped landing page", "url", feed.URL, "links", len(items))
	return items, nil
}

func matchesPattern(path string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(path+"/", p) {
			return true
		}
	}
	return false
}

func denied(title string, denylist []string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, d := range denylist {
		if lower == d {
			return true
		}
	}
	return false
}

// FetchHTML downloads an article page for enrichment.
func (f *Fetcher) FetchHTML(ctx context.Context, pageURL string) (string, error) {
	return f.get(ctx, pageURL, browserHeaders)
}

// Probe issues a GET and reports only the status code. Used by source
// verification; the body is discarded.
func (f *Fetcher) Probe(ctx context.Context, pageURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, err
	}
	browserHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, classifyTransport(pageURL, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, nil
}

func (f *Fetcher) get(ctx context.Context, rawURL string, setHeaders func(*http.Request)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &Error{Kind: KindParse, URL: rawURL, Err: err}
	}
	setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyTransport(rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Kind: KindHTTPStatus, Status: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindParse, URL: rawURL, Err: err}
	}
	return string(body), nil
}

func classifyTransport(rawURL string, err error) error {
	kind := KindParse
	var nerr interface{ Timeout() bool }
	if errors.As(err, &nerr) && nerr.Timeout() {
		kind = KindTimeout
	} else if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, URL: rawURL, Err: err}
}
