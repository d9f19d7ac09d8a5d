// Package translate produces the Arabic rendering of record titles and
// summaries. Providers are tried in order; the pipeline never fails because
// translation did, a record just stays untranslated until the next run.
package translate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officialai/aggregator/internal/logger"
	"github.com/officialai/aggregator/internal/metrics"
	"github.com/officialai/aggregator/internal/ratelimit"
	"github.com/officialai/aggregator/internal/update"
)

// Translator renders English text into Arabic.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// ErrBudgetExhausted signals that the per-run AI request budget is spent.
var ErrBudgetExhausted = errors.New("translation request budget exhausted")

// Chain tries each translator in order and returns the first success.
type Chain []Translator

func (c Chain) Translate(ctx context.Context, text string) (string, error) {
	var lastErr error
	for _, t := range c {
		out, err := t.Translate(ctx, text)
		if err == nil && out != "" && out != text {
			return out, nil
		}
		if err != nil {
			lastErr = err
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no translator produced output")
	}
	return "", lastErr
}

// Options control batching. Chunked processing with delays keeps the run
// under provider rate limits.
type Options struct {
	ChunkSize  int
	ItemDelay  time.Duration // between records inside a chunk
	ChunkDelay time.Duration // between chunks
	MaxCalls   int           // records sent to generative APIs per run, 0 = unlimited
}

// Service applies a translator chain over record batches.
type Service struct {
	translator Translator
	opts       Options
}

func NewService(translator Translator, opts Options) *Service {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 3
	}
	return &Service{translator: translator, opts: opts}
}

// TranslateRecords fills title_ar and summary_ar for records that still need
// them, in place. Already-translated records are skipped so repeated runs only
// pay for new content. Returns the number of records translated this run.
func (s *Service) TranslateRecords(ctx context.Context, records []update.Record) (int, error) {
	budget := ratelimit.NewBudget(s.opts.MaxCalls)
	translated := 0

	for start := 0; start < len(records); start += s.opts.ChunkSize {
		end := start + s.opts.ChunkSize
		if end > len(records) {
			end = len(records)
		}

		for i := start; i < end; i++ {
			rec := &records[i]
			if rec.Translated() && rec.SummaryAR != "" {
				continue
			}
			if !budget.Allow() {
				logger.Warn("translation budget exhausted", "translated", translated, "used", budget.Used())
				return translated, ErrBudgetExhausted
			}

			if err := s.translateRecord(ctx, rec); err != nil {
				if ctx.Err() != nil {
					return translated, ctx.Err()
				}
				metrics.Global.IncrementTranslationsFailed()
				logger.Warn("translation failed", "url", rec.URL, "error", err)
				continue
			}
			metrics.Global.IncrementTranslations()
			translated++

			if i < end-1 && s.opts.ItemDelay > 0 {
				if err := sleep(ctx, s.opts.ItemDelay); err != nil {
					return translated, err
				}
			}
		}

		if end < len(records) && s.opts.ChunkDelay > 0 {
			if err := sleep(ctx, s.opts.ChunkDelay); err != nil {
				return translated, err
			}
		}
	}
	return translated, nil
}

func (s *Service) translateRecord(ctx context.Context, rec *update.Record) error {
	titleAR, err := s.translator.Translate(ctx, rec.Title)
	if err != nil {
		return fmt.Errorf("title: %w", err)
	}
	rec.TitleAR = titleAR

	if rec.Summary != "" {
		summaryAR, err := s.translator.Translate(ctx, rec.Summary)
		if err != nil {
			return fmt.Errorf("summary: %w", err)
		}
		rec.SummaryAR = summaryAR
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
