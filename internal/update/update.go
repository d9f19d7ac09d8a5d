// Package update defines the normalized announcement record shared by the
// whole pipeline, plus the presentation-time grouping of adjacent records.
package update

import "time"

// Tag is the closed set of topic categories a record can carry.
type Tag string

const (
	TagNews        Tag = "News"
	TagRelease     Tag = "Release"
	TagResearch    Tag = "Research"
	TagEngineering Tag = "Engineering"
	TagCaseStudy   Tag = "Case Study"
	TagCorporate   Tag = "Corporate"
	TagPricing     Tag = "Pricing"
	TagPolicy      Tag = "Policy"
	TagSecurity    Tag = "Security"
	TagDocs        Tag = "Docs"
)

// AllTags lists every valid tag value.
var AllTags = []Tag{
	TagNews, TagRelease, TagResearch, TagEngineering, TagCaseStudy,
	TagCorporate, TagPricing, TagPolicy, TagSecurity, TagDocs,
}

// ValidTag reports whether t is one of the known tag values.
func ValidTag(t Tag) bool {
	for _, known := range AllTags {
		if t == known {
			return true
		}
	}
	return false
}

// Record is a single normalized announcement. The URL is the dedup key and
// never changes once set; most other fields may be upgraded by enrichment.
type Record struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	URL       string    `json:"url"`
	Tag       Tag       `json:"tag"`
	Summary   string    `json:"summary,omitempty"`
	Image     string    `json:"image,omitempty"`
	TitleAR   string    `json:"title_ar,omitempty"`
	SummaryAR string    `json:"summary_ar,omitempty"`
}

// Translated reports whether the record already carries a usable Arabic
// rendering. A translation equal to the source text counts as untranslated.
func (r Record) Translated() bool {
	return r.TitleAR != "" && r.TitleAR != r.Title
}
