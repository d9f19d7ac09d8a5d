// Package digest renders the weekly plain-text summary from the persisted
// record collection. Read and transform only; it never writes to the store.
package digest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/officialai/aggregator/internal/update"
)

// Generate renders the digest for the 7 days before now, grouped by company
// in alphabetical order.
func Generate(records []update.Record, now time.Time) string {
	weekAgo := now.AddDate(0, 0, -7)

	grouped := make(map[string][]update.Record)
	for _, rec := range records {
		if rec.Date.After(weekAgo) {
			grouped[rec.Company] = append(grouped[rec.Company], rec)
		}
	}

	companies := make([]string, 0, len(grouped))
	for name := range grouped {
		companies = append(companies, name)
	}
	sort.Strings(companies)

	_, week := now.ISOWeek()

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: Official AI Updates — Week %d\n\n", week)

	if len(companies) == 0 {
		b.WriteString("No official updates this week.\n")
	}

	for _, company := range companies {
		b.WriteString(company)
		b.WriteByte('\n')
		for _, rec := range grouped[company] {
			fmt.Fprintf(&b, "- %s (%s) %s\n", rec.Title, rec.Tag, rec.URL)
		}
		b.WriteByte('\n')
	}

	b.WriteString("--\nOfficial.ai\nSignal over noise.")
	return b.String()
}

// Write renders the digest and stores it next to the record collection as
// digest-week-N.txt. Returns the path written.
func Write(dir string, records []update.Record, now time.Time) (string, error) {
	_, week := now.ISOWeek()
	path := filepath.Join(dir, fmt.Sprintf("digest-week-%d.txt", week))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Generate(records, now)), 0o644); err != nil {
		return "", fmt.Errorf("write digest: %w", err)
	}
	return path, nil
}
