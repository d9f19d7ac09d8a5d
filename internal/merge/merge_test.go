package merge

import (
	"testing"
	"time"

	"github.com/officialai/aggregator/internal/update"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestDedupeFirstWins(t *testing.T) {
	records := []update.Record{
		{URL: "https://a.com/1", Title: "first"},
		{URL: " https://a.com/1 ", Title: "second"},
		{URL: "https://a.com/2", Title: "other"},
		{URL: "", Title: "no url"},
	}

	out := Dedupe(records)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Title != "first" {
		t.Errorf("first occurrence must win, got %q", out[0].Title)
	}
}

func TestDedupeIdempotent(t *testing.T) {
	records := []update.Record{
		{URL: "https://a.com/1"},
		{URL: "https://a.com/1"},
	}
	once := Dedupe(records)
	twice := Dedupe(once)
	if len(once) != 1 || len(twice) != 1 {
		t.Errorf("len(once)=%d len(twice)=%d", len(once), len(twice))
	}
}

func TestFilterRetentionBoundary(t *testing.T) {
	now := time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, -6, 0)

	records := []update.Record{
		{URL: "a", Date: cutoff},                     // exactly at cutoff: dropped
		{URL: "b", Date: cutoff.AddDate(0, 0, 1)},    // one day inside: kept
		{URL: "c", Date: cutoff.AddDate(0, 0, -30)},  // old: dropped
		{URL: "d", Date: now},
	}

	out := FilterRetention(records, now, 6)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].URL != "b" || out[1].URL != "d" {
		t.Errorf("kept %s, %s", out[0].URL, out[1].URL)
	}
}

func TestSortByDateDescStable(t *testing.T) {
	records := []update.Record{
		{URL: "a", Date: day(1)},
		{URL: "b", Date: day(3)},
		{URL: "c", Date: day(3)},
		{URL: "d", Date: day(2)},
	}

	SortByDateDesc(records)

	want := []string{"b", "c", "d", "a"}
	for i, w := range want {
		if records[i].URL != w {
			t.Errorf("pos %d = %s, want %s", i, records[i].URL, w)
		}
	}
}

func TestMergeCarriesOverTranslations(t *testing.T) {
	existing := []update.Record{
		{
			URL:       "https://a.com/1",
			Title:     "Launch",
			Date:      day(1),
			Summary:   "Enriched summary.",
			Image:     "https://a.com/img.png",
			TitleAR:   "إطلاق",
			SummaryAR: "ملخص",
		},
	}
	fresh := []update.Record{
		{URL: "https://a.com/1", Title: "Launch", Date: day(5)},
	}

	out := Merge(existing, fresh)
	if len(out) != 1 {
		t.Fatalf("len = %d", len(out))
	}

	got := out[0]
	if got.TitleAR != "إطلاق" || got.SummaryAR != "ملخص" {
		t.Error("translations must survive a re-fetch")
	}
	if got.Summary != "Enriched summary." {
		t.Errorf("summary regressed to %q", got.Summary)
	}
	if got.Image != "https://a.com/img.png" {
		t.Error("image regressed")
	}
	if !got.Date.Equal(day(1)) {
		t.Errorf("earliest known date must win, got %v", got.Date)
	}
}

func TestMergeFreshFieldsWin(t *testing.T) {
	existing := []update.Record{
		{URL: "https://a.com/1", Title: "Old title", Summary: "old", Tag: update.TagNews, Date: day(1)},
	}
	fresh := []update.Record{
		{URL: "https://a.com/1", Title: "Corrected title", Summary: "A better enriched summary.", Tag: update.TagRelease, Date: day(1)},
	}

	out := Merge(existing, fresh)
	got := out[0]
	if got.Title != "Corrected title" || got.Tag != update.TagRelease {
		t.Errorf("fresh fields must win: %+v", got)
	}
	if got.Summary != "A better enriched summary." {
		t.Errorf("non-empty fresh summary must win, got %q", got.Summary)
	}
}

func TestMergeKeepsRecordsMissingFromFresh(t *testing.T) {
	existing := []update.Record{
		{URL: "https://a.com/1", Title: "Still here", Date: day(1)},
	}
	fresh := []update.Record{
		{URL: "https://a.com/2", Title: "New", Date: day(2)},
	}

	out := Merge(existing, fresh)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
}
