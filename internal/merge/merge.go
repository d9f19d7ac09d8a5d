// Package merge reconciles a freshly fetched batch of records against the
// persisted store: duplicate removal, retention filtering, ordering and the
// carry-over of fields that must survive re-fetches.
package merge

import (
	"sort"
	"strings"
	"time"

	"github.com/officialai/aggregator/internal/update"
)

// Dedupe removes records sharing a URL, keeping the first occurrence. Input
// order is preserved, so callers sort before deduping when recency should
// win.
func Dedupe(records []update.Record) []update.Record {
	seen := make(map[string]bool, len(records))
	out := records[:0:0]
	for _, rec := range records {
		key := strings.TrimSpace(rec.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, rec)
	}
	return out
}

// FilterRetention drops records older than months back from now. A record
// dated exactly at the cutoff is dropped; only strictly newer ones stay.
func FilterRetention(records []update.Record, now time.Time, months int) []update.Record {
	cutoff := now.AddDate(0, -months, 0)
	out := records[:0:0]
	for _, rec := range records {
		if rec.Date.After(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

// SortByDateDesc orders records newest first. The sort is stable so records
// sharing a date keep their fetch order, which grouping depends on.
func SortByDateDesc(records []update.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// Merge reconciles fresh records against the existing store. Fresh data wins
// field by field, but values the fetch cannot reproduce (translations,
// enriched summaries, images, corrected dates) are carried over from the
// existing record rather than regressed to feed-level data. Existing records
// absent from the fresh batch are kept; the retention filter is the only
// thing that removes records.
func Merge(existing, fresh []update.Record) []update.Record {
	byURL := make(map[string]update.Record, len(existing))
	for _, rec := range existing {
		byURL[strings.TrimSpace(rec.URL)] = rec
	}

	out := make([]update.Record, 0, len(existing)+len(fresh))
	seen := make(map[string]bool, len(fresh))

	for _, rec := range fresh {
		key := strings.TrimSpace(rec.URL)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if old, ok := byURL[key]; ok {
			rec = carryOver(rec, old)
		}
		out = append(out, rec)
	}

	for _, rec := range existing {
		key := strings.TrimSpace(rec.URL)
		if !seen[key] {
			out = append(out, rec)
		}
	}
	return out
}

// carryOver upgrades a fresh record with the fields only earlier runs could
// have produced.
func carryOver(fresh, old update.Record) update.Record {
	if fresh.TitleAR == "" && old.TitleAR != "" {
		fresh.TitleAR = old.TitleAR
	}
	if fresh.SummaryAR == "" && old.SummaryAR != "" {
		fresh.SummaryAR = old.SummaryAR
	}
	if fresh.Summary == "" && old.Summary != "" {
		fresh.Summary = old.Summary
	}
	if fresh.Image == "" && old.Image != "" {
		fresh.Image = old.Image
	}
	// A scraped item defaults to fetch time until enrichment finds the real
	// publish date, so the earliest known date wins.
	if !old.Date.IsZero() && old.Date.Before(fresh.Date) {
		fresh.Date = old.Date
	}
	return fresh
}
