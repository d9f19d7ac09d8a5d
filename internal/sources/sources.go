// Package sources holds the static registry of monitored companies and their
// feed endpoints. The registry is read-only configuration: it can be loaded
// from a YAML file or fall back to the built-in defaults.
package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/officialai/aggregator/internal/update"
)

// FeedKind selects how an endpoint is harvested.
type FeedKind string

const (
	KindRSS  FeedKind = "rss"  // syndicated feed parsed as RSS/Atom
	KindHTML FeedKind = "html" // landing page scraped for article links
)

// Feed is one concrete endpoint belonging to a source.
type Feed struct {
	URL         string   `yaml:"url"`
	Kind        FeedKind `yaml:"kind"`
	DefaultTag  string   `yaml:"defaultTag,omitempty"`
	TitlePrefix string   `yaml:"titlePrefix,omitempty"`

	// Scrape tuning, only meaningful for KindHTML. Empty slices fall back to
	// DefaultPathPatterns and DefaultDenylist.
	PathPatterns []string `yaml:"pathPatterns,omitempty"`
	Denylist     []string `yaml:"denylist,omitempty"`
}

// Source is one monitored organization owning one or more feeds.
type Source struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Feeds []Feed `yaml:"feeds"`
}

// DefaultPathPatterns are the URL segments that mark a link as article-like
// when scraping a landing page.
var DefaultPathPatterns = []string{"/index/", "/news/", "/research/", "/blog/", "/announcements/"}

// DefaultDenylist holds navigation and footer anchor texts that must never be
// mistaken for headlines (matched case-insensitively, exact).
var DefaultDenylist = []string{
	"read more", "learn more", "see all", "view all", "all posts",
	"sign up", "sign in", "log in", "subscribe", "contact us", "careers",
	"blog", "news", "research", "about", "privacy policy", "terms of service",
}

type registryFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the registry from path. A missing path returns the built-in
// defaults; a present but invalid file is an error rather than a silent
// fallback.
func Load(path string) ([]Source, error) {
	if path == "" {
		return Defaults(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return nil, fmt.Errorf("read sources config: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse sources config %s: %w", path, err)
	}
	if len(file.Sources) == 0 {
		return Defaults(), nil
	}
	if err := Validate(file.Sources); err != nil {
		return nil, err
	}
	return file.Sources, nil
}

// Validate checks registry invariants: every source needs a slug and at least
// one feed, every feed a known kind and endpoint, and tag overrides must come
// from the closed tag set.
func Validate(srcs []Source) error {
	for _, src := range srcs {
		if src.ID == "" || src.Name == "" {
			return fmt.Errorf("source %q/%q: id and name are required", src.ID, src.Name)
		}
		if len(src.Feeds) == 0 {
			return fmt.Errorf("source %s: at least one feed is required", src.ID)
		}
		for _, feed := range src.Feeds {
			if feed.URL == "" {
				return fmt.Errorf("source %s: feed endpoint is required", src.ID)
			}
			switch feed.Kind {
			case KindRSS, KindHTML:
			default:
				return fmt.Errorf("source %s: unknown feed kind %q for %s", src.ID, feed.Kind, feed.URL)
			}
			if feed.DefaultTag != "" && !update.ValidTag(update.Tag(feed.DefaultTag)) {
				return fmt.Errorf("source %s: unknown default tag %q", src.ID, feed.DefaultTag)
			}
		}
	}
	return nil
}

// ScrapePathPatterns resolves the effective article-path patterns for a feed.
func (f Feed) ScrapePathPatterns() []string {
	if len(f.PathPatterns) > 0 {
		return f.PathPatterns
	}
	return DefaultPathPatterns
}

// ScrapeDenylist resolves the effective anchor-text denylist for a feed.
func (f Feed) ScrapeDenylist() []string {
	if len(f.Denylist) > 0 {
		return f.Denylist
	}
	return DefaultDenylist
}

// Defaults returns the built-in registry of official AI company sources.
func Defaults() []Source {
	return []Source{
		{
			ID:   "openai",
			Name: "OpenAI",
			URL:  "https://openai.com",
			Feeds: []Feed{
				{URL: "https://openai.com/news/rss.xml", Kind: KindRSS},
				{URL: "https://github.com/openai/openai-python/releases.atom", Kind: KindRSS, DefaultTag: "Engineering", TitlePrefix: "OpenAI Python Library"},
			},
		},
		{
			ID:   "anthropic",
			Name: "Anthropic",
			URL:  "https://www.anthropic.com",
			Feeds: []Feed{
				{URL: "https://www.anthropic.com/index.xml", Kind: KindRSS},
				{URL: "https://www.anthropic.com/feed", Kind: KindRSS},
				{URL: "https://www.anthropic.com/news", Kind: KindHTML},
			},
		},
		{
			ID:   "google-deepmind",
			Name: "Google DeepMind",
			URL:  "https://deepmind.google",
			Feeds: []Feed{
				{URL: "https://deepmind.google/blog/rss.xml", Kind: KindRSS},
			},
		},
		{
			ID:   "meta-ai",
			Name: "Meta AI",
			URL:  "https://ai.meta.com",
			Feeds: []Feed{
				// Meta AI RSS is unreliable, scrape the blog index instead.
				{URL: "https://ai.meta.com/blog/", Kind: KindHTML},
			},
		},
		{
			ID:   "mistral-ai",
			Name: "Mistral AI",
			URL:  "https://mistral.ai",
			Feeds: []Feed{
				{URL: "https://mistral.ai/news/", Kind: KindHTML},
			},
		},
		{
			ID:   "hugging-face",
			Name: "Hugging Face",
			URL:  "https://huggingface.co",
			Feeds: []Feed{
				{URL: "https://huggingface.co/blog/feed.xml", Kind: KindRSS},
			},
		},
		{
			ID:   "nvidia",
			Name: "NVIDIA",
			URL:  "https://www.nvidia.com",
			Feeds: []Feed{
				{URL: "https://developer.nvidia.com/blog/feed", Kind: KindRSS},
			},
		},
		{
			ID:   "microsoft",
			Name: "Microsoft",
			URL:  "https://www.microsoft.com",
			Feeds: []Feed{
				{URL: "https://blogs.microsoft.com/ai/feed/", Kind: KindRSS},
				{URL: "https://azure.microsoft.com/en-us/blog/feed/", Kind: KindRSS, DefaultTag: "News"},
			},
		},
		{
			ID:   "stability-ai",
			Name: "Stability AI",
			URL:  "https://stability.ai",
			Feeds: []Feed{
				{URL: "https://stability.ai/news?format=rss", Kind: KindRSS},
			},
		},
		{
			ID:   "cohere",
			Name: "Cohere",
			URL:  "https://cohere.com",
			Feeds: []Feed{
				{URL: "https://cohere.com/blog/rss.xml", Kind: KindRSS},
			},
		},
		{
			ID:   "x-ai",
			Name: "X.AI",
			URL:  "https://x.ai",
			Feeds: []Feed{
				{URL: "https://x.ai/blog/rss.xml", Kind: KindRSS},
			},
		},
	}
}
