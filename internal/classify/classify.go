// Package classify assigns a topic tag to an announcement from its title,
// URL and summary text.
package classify

import (
	"regexp"
	"strings"

	"github.com/officialai/aggregator/internal/update"
)

type rule struct {
	tag update.Tag
	re  *regexp.Regexp
}

// keywords builds a word-boundary alternation so short keys never match inside
// longer words ("pic" must not fire on "epic" or "pricing").
func keywords(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}

// rules is an ordered cascade; the first match wins. Administrative categories
// (pricing, security, policy, docs) outrank content categories, which outrank
// the News fallback.
var rules = []rule{
	{update.TagPricing, keywords("pricing", "price", "cost", "billing", "tiers", "subscription")},
	{update.TagSecurity, keywords("security", "cve", "vulnerability", "vulnerabilities", "exploit", "patch", "breach", "threat", "safety")},
	{update.TagPolicy, keywords("policy", "terms", "privacy", "compliance", "legal", "tos", "dpa", "governance")},
	{update.TagDocs, keywords("doc", "docs", "documentation", "api", "sdk", "reference", "guide", "tutorial", "examples", "manual")},
	{update.TagResearch, keywords("research", "paper", "papers", "study", "benchmark", "benchmarks", "arxiv", "evals")},
	{update.TagEngineering, keywords("engineering", "infrastructure", "scaling", "architecture", "internals", "postmortem", "kubernetes", "postgresql")},
	{update.TagCaseStudy, keywords("case study", "case studies", "customer story", "customer stories", "success story")},
	{update.TagCorporate, keywords("partnership", "partner", "partners", "appointment", "appoints", "funding", "investment", "investing", "acquisition", "acquires", "board")},
	{update.TagRelease, keywords("introducing", "announcing", "launch", "launches", "launching", "release", "releases", "available", "preview", "update", "upgrade")},
}

// Classify deduces exactly one tag from the lowercased concatenation of
// title, URL and summary. It is deterministic and always returns a value from
// the closed tag set.
func Classify(title, url, summary string) update.Tag {
	text := strings.ToLower(title + " " + url + " " + summary)

	for _, r := range rules {
		if r.re.MatchString(text) {
			return r.tag
		}
	}
	return update.TagNews
}
