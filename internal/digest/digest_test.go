package digest

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/officialai/aggregator/internal/update"
)

var now = time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC) // ISO week 25

func TestGenerateGroupsByCompany(t *testing.T) {
	records := []update.Record{
		{Company: "OpenAI", Title: "New model", Tag: update.TagRelease, URL: "https://openai.com/1", Date: now.AddDate(0, 0, -1)},
		{Company: "Anthropic", Title: "Safety work", Tag: update.TagResearch, URL: "https://anthropic.com/1", Date: now.AddDate(0, 0, -2)},
		{Company: "OpenAI", Title: "Pricing change", Tag: update.TagPricing, URL: "https://openai.com/2", Date: now.AddDate(0, 0, -3)},
		{Company: "Cohere", Title: "Old post", Tag: update.TagNews, URL: "https://cohere.com/1", Date: now.AddDate(0, 0, -10)},
	}

	out := Generate(records, now)

	if !strings.HasPrefix(out, "Subject: Official AI Updates — Week 25\n\n") {
		t.Errorf("header wrong:\n%s", out)
	}
	if strings.Contains(out, "Old post") {
		t.Error("records outside the 7-day window must be excluded")
	}
	// Companies in alphabetical order.
	if strings.Index(out, "Anthropic") > strings.Index(out, "OpenAI") {
		t.Error("companies must be sorted alphabetically")
	}
	if !strings.Contains(out, "- New model (Release) https://openai.com/1") {
		t.Errorf("line format wrong:\n%s", out)
	}
	if !strings.HasSuffix(out, "--\nOfficial.ai\nSignal over noise.") {
		t.Errorf("footer wrong:\n%s", out)
	}
}

func TestGenerateEmptyWeek(t *testing.T) {
	out := Generate(nil, now)
	if !strings.Contains(out, "No official updates this week.") {
		t.Errorf("empty digest:\n%s", out)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	records := []update.Record{
		{Company: "OpenAI", Title: "New model", Tag: update.TagRelease, URL: "https://openai.com/1", Date: now.AddDate(0, 0, -1)},
	}

	path, err := Write(dir, records, now)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.HasSuffix(path, "digest-week-25.txt") {
		t.Errorf("path = %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(raw), "New model") {
		t.Error("digest content missing")
	}
}
