package update

import (
	"strings"
	"time"
)

// Group collapses consecutive near-duplicate records (e.g. sequential SDK
// releases) into one feed entity. It is derived for presentation and never
// persisted.
type Group struct {
	ID      string
	Company string
	Tag     Tag
	Title   string
	Date    time.Time
	Items   []Record
}

// Entry is one element of a grouped feed: either a single record or a group.
// Exactly one of the two fields is non-nil.
type Entry struct {
	Record *Record
	Group  *Group
}

// minPrefix is the shared-title-prefix length required before two adjacent
// records are considered part of one series. Release and Engineering posts
// tend to carry short versioned titles, so they get a lower bar.
const (
	minPrefix        = 20
	minPrefixRelease = 10
)

// GroupAdjacent walks the date-sorted record list once and coalesces runs of
// records from the same company with the same tag and a long common title
// prefix. Each record is compared only against the first record of the open
// buffer; there is no global clustering.
func GroupAdjacent(records []Record) []Entry {
	if len(records) == 0 {
		return nil
	}

	var result []Entry
	buffer := []Record{records[0]}

	flush := func() {
		if len(buffer) > 1 {
			first := buffer[0]
			items := make([]Record, len(buffer))
			copy(items, buffer)
			result = append(result, Entry{Group: &Group{
				ID:      first.ID + "-group",
				Company: first.Company,
				Tag:     first.Tag,
				Title:   groupTitle(first, buffer[1]),
				Date:    first.Date,
				Items:   items,
			}})
			return
		}
		single := buffer[0]
		result = append(result, Entry{Record: &single})
	}

	for i := 1; i < len(records); i++ {
		item := records[i]
		head := buffer[0]

		if head.Company == item.Company && head.Tag == item.Tag && seriesPrefix(head, item) {
			buffer = append(buffer, item)
			continue
		}
		flush()
		buffer = []Record{item}
	}
	flush()

	return result
}

func seriesPrefix(a, b Record) bool {
	n := len(commonPrefix(a.Title, b.Title))
	if n > minPrefix {
		return true
	}
	if a.Tag == TagRelease || a.Tag == TagEngineering {
		return n > minPrefixRelease
	}
	return false
}

func commonPrefix(a, b string) string {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// groupTitle derives the synthetic group headline from the shared prefix,
// trimming dangling separators left behind by the cut.
func groupTitle(first, second Record) string {
	title := strings.TrimSpace(commonPrefix(first.Title, second.Title))
	title = strings.TrimSpace(strings.TrimRight(title, "-:"))
	if title == "" {
		return first.Company + " Updates"
	}
	return title
}
