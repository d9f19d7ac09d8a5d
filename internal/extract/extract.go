// Package extract upgrades a harvested record with signals from its article
// page: canonical title, publish date, summary and preview image. Extraction
// never degrades a record; every strategy either improves a field or leaves
// it alone.
package extract

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/officialai/aggregator/internal/classify"
	"github.com/officialai/aggregator/internal/fetcher"
	"github.com/officialai/aggregator/internal/logger"
	"github.com/officialai/aggregator/internal/ratelimit"
	"github.com/officialai/aggregator/internal/update"
)

// Enricher fetches article pages and applies the extraction cascade. Page
// fetches go through a pacer so enrichment does not hammer a single host.
type Enricher struct {
	fetcher *fetcher.Fetcher
	pacer   *ratelimit.Pacer
}

func NewEnricher(f *fetcher.Fetcher, delay time.Duration) *Enricher {
	return &Enricher{fetcher: f, pacer: ratelimit.NewPacer(delay)}
}

// Enrich fetches the record's page and upgrades its fields in place. Fetch
// and parse failures are reported but leave the record untouched.
func (e *Enricher) Enrich(ctx context.Context, rec *update.Record, company string) error {
	if err := e.pacer.Wait(ctx); err != nil {
		return err
	}
	html, err := e.fetcher.FetchHTML(ctx, rec.URL)
	if err != nil {
		logger.Debug("enrichment fetch failed", "url", rec.URL, "error", err)
		return err
	}
	return ApplyHTML(rec, company, html, rec.URL)
}

// ApplyHTML runs the extraction cascade over an already-fetched page. Pure
// apart from the clock used for date sanity checks.
func ApplyHTML(rec *update.Record, company, html, baseURL string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return err
	}

	applyTitle(rec, doc, company)
	applyDate(rec, doc, html)
	applySummary(rec, doc)
	applyImage(rec, doc, baseURL)

	// Reclassify with the richer text. The default fallback never overrides a
	// tag assigned earlier from feed configuration.
	if tag := classify.Classify(rec.Title, rec.URL, rec.Summary); tag != update.TagNews {
		rec.Tag = tag
	}
	return nil
}

// applyTitle prefers og:title with the site-name suffix stripped, then the
// first h1. Short matches are treated as navigation noise.
func applyTitle(rec *update.Record, doc *goquery.Document, company string) {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		og = strings.TrimSpace(og)
		if len([]rune(og)) > 5 {
			rec.Title = stripSiteSuffix(og, company)
			return
		}
	}
	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	if len([]rune(h1)) > 5 {
		rec.Title = h1
	}
}

// stripSiteSuffix removes a trailing "| Company Blog" style suffix.
func stripSiteSuffix(title, company string) string {
	re, err := regexp.Compile(`(?i)\s*[|\\\-–—]\s*(` + regexp.QuoteMeta(company) + `|Official).*$`)
	if err != nil {
		return title
	}
	return strings.TrimSpace(re.ReplaceAllString(title, ""))
}

// dateStrategy tries to pull a publish date out of the page. Strategies are
// ordered by trustworthiness and the first valid hit wins.
type dateStrategy func(doc *goquery.Document, html string) (time.Time, bool)

var dateStrategies = []dateStrategy{
	dateFromJSONLD,
	dateFromTimeElement,
	dateFromMetaTag,
	dateFromISOPattern,
	dateFromHumanPattern,
}

func applyDate(rec *update.Record, doc *goquery.Document, html string) {
	for _, strategy := range dateStrategies {
		if t, ok := strategy(doc, html); ok && validDate(t) {
			rec.Date = t
			return
		}
	}
}

// validDate rejects unparseable instants and dates implausibly far in the
// future. Feeds occasionally carry placeholder years like 2099.
func validDate(t time.Time) bool {
	return !t.IsZero() && t.Year() <= time.Now().Year()+1
}

func dateFromJSONLD(doc *goquery.Document, _ string) (time.Time, bool) {
	var found time.Time
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload interface{}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if raw := findDatePublished(payload); raw != "" {
			if t, err := parseFlexible(raw); err == nil {
				found = t
				return false
			}
		}
		return true
	})
	return found, !found.IsZero()
}

// findDatePublished walks arbitrarily nested JSON-LD (objects, arrays,
// @graph) for the first datePublished value.
func findDatePublished(node interface{}) string {
	switch v := node.(type) {
	case map[string]interface{}:
		if raw, ok := v["datePublished"].(string); ok && raw != "" {
			return raw
		}
		for _, key := range []string{"@graph", "mainEntity", "itemListElement"} {
			if child, ok := v[key]; ok {
				if raw := findDatePublished(child); raw != "" {
					return raw
				}
			}
		}
	case []interface{}:
		for _, child := range v {
			if raw := findDatePublished(child); raw != "" {
				return raw
			}
		}
	}
	return ""
}

func dateFromTimeElement(doc *goquery.Document, _ string) (time.Time, bool) {
	raw, ok := doc.Find("time[datetime]").First().Attr("datetime")
	if !ok {
		return time.Time{}, false
	}
	t, err := parseFlexible(raw)
	return t, err == nil
}

func dateFromMetaTag(doc *goquery.Document, _ string) (time.Time, bool) {
	raw, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content")
	if !ok {
		return time.Time{}, false
	}
	t, err := parseFlexible(raw)
	return t, err == nil
}

var isoDatePattern = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`)

func dateFromISOPattern(_ *goquery.Document, html string) (time.Time, bool) {
	m := isoDatePattern.FindStringSubmatch(html)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", m[1])
	return t, err == nil
}

var humanDatePattern = regexp.MustCompile(`(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2}),?\s+(\d{4})`)

func dateFromHumanPattern(doc *goquery.Document, _ string) (time.Time, bool) {
	m := humanDatePattern.FindStringSubmatch(doc.Text())
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse("January 2 2006", m[1]+" "+m[2]+" "+m[3])
	return t, err == nil
}

// parseFlexible accepts the timestamp shapes seen in the wild on official
// blogs: RFC3339 with and without zone or time part.
func parseFlexible(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// maxSummaryRunes bounds persisted summaries; longer text is cut to 157
// runes plus an ellipsis marker.
const maxSummaryRunes = 160

// genericDescriptions are organization taglines that sites serve as a default
// meta description on every page. They carry no article signal.
var genericDescriptions = []string{
	"anthropic is an ai safety and research company",
	"we believe ai will have a vast impact on the world",
	"the latest news and updates",
	"official blog",
}

var summaryBoilerplate = []string{"cookie", "newsletter", "subscribe"}

var contentSelectors = []string{"article p", "main p", ".content p", ".post-content p", ".prose p"}

func applySummary(rec *update.Record, doc *goquery.Document) {
	summary, _ := doc.Find(`meta[name="description"]`).Attr("content")
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
		summary = strings.TrimSpace(summary)
	}
	if isGenericDescription(summary) {
		summary = ""
	}
	if summary == "" {
		summary = firstContentParagraph(doc)
	}

	summary = Truncate(summary, maxSummaryRunes)
	if len([]rune(summary)) > 10 && summary != rec.Summary {
		rec.Summary = summary
	}
}

func isGenericDescription(s string) bool {
	lower := strings.ToLower(s)
	for _, g := range genericDescriptions {
		if strings.Contains(lower, g) {
			return true
		}
	}
	return false
}

func firstContentParagraph(doc *goquery.Document) string {
	var found string
	for _, selector := range contentSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := strings.Join(strings.Fields(s.Text()), " ")
			if len([]rune(text)) <= 50 {
				return true
			}
			lower := strings.ToLower(text)
			for _, b := range summaryBoilerplate {
				if strings.Contains(lower, b) {
					return true
				}
			}
			found = text
			return false
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// Truncate cuts s to at most max runes, reserving three for the ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func applyImage(rec *update.Record, doc *goquery.Document, baseURL string) {
	if img := ImageFromDoc(doc, baseURL); img != "" {
		rec.Image = img
	}
}

// ImageFromDoc resolves the page's preview image from open-graph or
// twitter-card metadata. Relative paths are made absolute against the page.
func ImageFromDoc(doc *goquery.Document, baseURL string) string {
	selectors := []string{
		`meta[property="og:image"]`,
		`meta[name="og:image"]`,
		`meta[name="twitter:image"]`,
	}
	for _, sel := range selectors {
		raw, ok := doc.Find(sel).Attr("content")
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if base, err := url.Parse(baseURL); err == nil {
			if ref, err := url.Parse(raw); err == nil {
				return base.ResolveReference(ref).String()
			}
		}
		return raw
	}
	return ""
}

// ImageForURL fetches a page and returns just its preview image. Used by the
// image backfill command.
func (e *Enricher) ImageForURL(ctx context.Context, pageURL string) (string, error) {
	html, err := e.fetcher.FetchHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	return ImageFromDoc(doc, pageURL), nil
}
