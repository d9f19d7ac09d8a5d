package metrics

import (
	"sync"
	"time"
)

// Metrics collects pipeline counters for the optional monitoring endpoint.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	SourcesFetched     int64
	SourcesFailed      int64
	ItemsCollected     int64
	ItemsEnriched      int64
	DuplicatesDropped  int64
	Translations       int64
	TranslationsFailed int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddItemsCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsCollected += int64(n)
}

func (m *Metrics) IncrementItemsEnriched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsEnriched++
}

func (m *Metrics) AddDuplicatesDropped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesDropped += int64(n)
}

func (m *Metrics) IncrementTranslations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Translations++
}

func (m *Metrics) IncrementTranslationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsFailed++
}

func (m *Metrics) RecordRun(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"sources_fetched":      m.SourcesFetched,
		"sources_failed":       m.SourcesFailed,
		"items_collected":      m.ItemsCollected,
		"items_enriched":       m.ItemsEnriched,
		"duplicates_dropped":   m.DuplicatesDropped,
		"translations":         m.Translations,
		"translations_failed":  m.TranslationsFailed,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
