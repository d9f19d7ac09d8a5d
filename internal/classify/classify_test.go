package classify

import (
	"testing"

	"github.com/officialai/aggregator/internal/update"
)

func TestClassifyPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		title   string
		url     string
		summary string
		want    update.Tag
	}{
		{
			name:  "pricing outranks release",
			title: "Introducing new pricing tiers",
			url:   "https://x.com/a",
			want:  update.TagPricing,
		},
		{
			name:  "security outranks research",
			title: "Security research on prompt injection",
			url:   "https://example.com/blog/a",
			want:  update.TagSecurity,
		},
		{
			name:  "docs from url segment",
			title: "Getting started",
			url:   "https://example.com/docs/quickstart",
			want:  update.TagDocs,
		},
		{
			name:  "release keyword",
			title: "Announcing X",
			url:   "https://a.example/y",
			want:  update.TagRelease,
		},
		{
			name:    "research from summary",
			title:   "A new frontier",
			url:     "https://example.com/posts/frontier",
			summary: "We publish a paper with new benchmark results.",
			want:    update.TagResearch,
		},
		{
			name:  "fallback to news",
			title: "Our offices are moving",
			url:   "https://example.com/posts/moving",
			want:  update.TagNews,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.title, tt.url, tt.summary)
			if got != tt.want {
				t.Fatalf("Classify(%q, %q, %q) = %q, want %q", tt.title, tt.url, tt.summary, got, tt.want)
			}
		})
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	t.Parallel()

	got := Classify("Anthropic pricing update", "https://anthropic.com/pricing", "")
	if got != update.TagPricing {
		t.Fatalf("expected Pricing, got %q", got)
	}

	// "epic" contains "pic" and "costume" contains "cost": neither may match.
	got = Classify("An epic costume contest", "https://example.com/posts/contest", "")
	if got != update.TagNews {
		t.Fatalf("expected News fallback, got %q", got)
	}
}

func TestClassifyDeterministicAndTotal(t *testing.T) {
	t.Parallel()

	inputs := []struct{ title, url, summary string }{
		{"Introducing new pricing tiers", "https://x.com/a", ""},
		{"", "", ""},
		{"Scaling our inference fleet", "https://example.com/engineering/fleet", "How we rebuilt the scheduler."},
		{"Весенний дайджест", "https://example.com/posts/digest", "🎉"},
	}

	for _, in := range inputs {
		first := Classify(in.title, in.url, in.summary)
		if !update.ValidTag(first) {
			t.Fatalf("Classify returned value outside the tag set: %q", first)
		}
		for i := 0; i < 5; i++ {
			if got := Classify(in.title, in.url, in.summary); got != first {
				t.Fatalf("Classify not deterministic: %q then %q", first, got)
			}
		}
	}
}
