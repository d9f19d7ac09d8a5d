// Package app wires the pipeline: registry -> fetch -> enrich -> classify ->
// translate -> merge -> persist. One Run is one complete pass over every
// configured source.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officialai/aggregator/internal/classify"
	"github.com/officialai/aggregator/internal/config"
	"github.com/officialai/aggregator/internal/extract"
	"github.com/officialai/aggregator/internal/fetcher"
	"github.com/officialai/aggregator/internal/logger"
	"github.com/officialai/aggregator/internal/merge"
	"github.com/officialai/aggregator/internal/metrics"
	"github.com/officialai/aggregator/internal/sources"
	"github.com/officialai/aggregator/internal/store"
	"github.com/officialai/aggregator/internal/translate"
	"github.com/officialai/aggregator/internal/update"
)

const snippetRunes = 150

type App struct {
	cfg      *config.Config
	registry []sources.Source
	fetcher  *fetcher.Fetcher
	enricher *extract.Enricher
	svc      *translate.Service
	store    *store.Store
}

// New builds the pipeline from configuration. The translator chain is
// assembled from whichever credentials are present; with none, the dictionary
// still produces placeholder translations.
func New(cfg *config.Config) (*App, error) {
	registry, err := sources.Load(cfg.SourcesPath)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(cfg.RequestTimeout)

	var chain translate.Chain
	if cfg.GeminiAPIKey != "" {
		gemini, err := translate.NewGemini(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini unavailable, continuing without it", "error", err)
		} else {
			chain = append(chain, gemini)
		}
	}
	if cfg.OpenAIAPIKey != "" {
		chain = append(chain, translate.NewOpenAI(cfg.OpenAIAPIKey))
	}
	chain = append(chain, translate.NewDictionary())

	svc := translate.NewService(chain, translate.Options{
		ChunkSize:  cfg.TranslateChunkSize,
		ItemDelay:  cfg.TranslateDelay,
		ChunkDelay: cfg.ChunkDelay,
		MaxCalls:   cfg.MaxAIRequests,
	})

	return &App{
		cfg:      cfg,
		registry: registry,
		fetcher:  f,
		enricher: extract.NewEnricher(f, cfg.EnrichDelay),
		svc:      svc,
		store:    store.New(cfg.DataDir),
	}, nil
}

// Store exposes the persistence layer to maintenance commands.
func (a *App) Store() *store.Store { return a.store }

// Fetcher exposes the HTTP layer to maintenance commands.
func (a *App) Fetcher() *fetcher.Fetcher { return a.fetcher }

// Enricher exposes the extraction layer to maintenance commands.
func (a *App) Enricher() *extract.Enricher { return a.enricher }

// Registry returns the loaded source registry.
func (a *App) Registry() []sources.Source { return a.registry }

// TranslateRecords runs the batch translator over records in place.
func (a *App) TranslateRecords(ctx context.Context, records []update.Record) (int, error) {
	return a.svc.TranslateRecords(ctx, records)
}

// Run executes one full pipeline pass. Per-source and per-item failures are
// logged and skipped; only store I/O is fatal, in which case failure metadata
// is written before returning.
func (a *App) Run(ctx context.Context) error {
	started := time.Now()
	logger.Info("starting content fetch", "sources", len(a.registry))

	var collected []update.Record
	for _, src := range a.registry {
		records := a.collectSource(ctx, src)
		collected = append(collected, records...)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	metrics.Global.AddItemsCollected(len(collected))

	before := len(collected)
	collected = merge.Dedupe(collected)
	metrics.Global.AddDuplicatesDropped(before - len(collected))

	existing, err := a.store.Load()
	if err != nil {
		err = fmt.Errorf("load store: %w", err)
		metrics.Global.SetError(err.Error())
		a.store.WriteFailure(err)
		return err
	}

	merged := merge.Merge(existing, collected)
	merged = merge.FilterRetention(merged, time.Now(), a.cfg.RetentionMonths)
	merge.SortByDateDesc(merged)

	// Translate after the merge so records that already carry a translation
	// from an earlier run are skipped instead of redone.
	if n, err := a.svc.TranslateRecords(ctx, merged); err != nil {
		if errors.Is(err, translate.ErrBudgetExhausted) {
			logger.Info("translation stopped at budget", "translated", n)
		} else if ctx.Err() != nil {
			return ctx.Err()
		} else {
			logger.Warn("translation pass incomplete", "translated", n, "error", err)
		}
	}

	if err := a.store.Save(merged); err != nil {
		err = fmt.Errorf("save store: %w", err)
		metrics.Global.SetError(err.Error())
		a.store.WriteFailure(err)
		return err
	}

	metrics.Global.RecordRun(time.Since(started))
	logger.Info("run complete",
		"collected", len(collected),
		"persisted", len(merged),
		"duration", time.Since(started).Round(time.Millisecond))
	return nil
}

// collectSource harvests every feed of one source. Feed failures skip just
// that feed.
func (a *App) collectSource(ctx context.Context, src sources.Source) []update.Record {
	var records []update.Record

	for _, feed := range src.Feeds {
		var (
			items []fetcher.Item
			err   error
		)
		switch feed.Kind {
		case sources.KindRSS:
			items, err = a.fetcher.FetchFeed(ctx, feed.URL)
		case sources.KindHTML:
			items, err = a.fetcher.ScrapePage(ctx, feed, a.cfg.ScrapeLimit)
		}
		if err != nil {
			metrics.Global.IncrementSourcesFailed()
			logger.Warn("feed failed", "source", src.ID, "url", feed.URL, "error", err)
			continue
		}
		metrics.Global.IncrementSourcesFetched()

		batch := a.normalize(items, src, feed)
		a.enrichBatch(ctx, batch, src.Name)
		records = append(records, batch...)
		logger.Info("feed harvested", "source", src.ID, "url", feed.URL, "items", len(batch))
	}
	return records
}

// normalize converts raw feed items into records, applying the feed's title
// prefix and tag override.
func (a *App) normalize(items []fetcher.Item, src sources.Source, feed sources.Feed) []update.Record {
	records := make([]update.Record, 0, len(items))
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}

		title := item.Title
		if feed.TitlePrefix != "" {
			title = feed.TitlePrefix + " " + title
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}
		date := item.Published
		if date.IsZero() {
			date = time.Now()
		}

		tag := classify.Classify(title, item.Link, item.Snippet)
		if tag == update.TagNews && feed.DefaultTag != "" {
			tag = update.Tag(feed.DefaultTag)
		}

		records = append(records, update.Record{
			ID:      id,
			Company: src.Name,
			Title:   title,
			Date:    date,
			URL:     item.Link,
			Tag:     tag,
			Summary: extract.Truncate(item.Snippet, snippetRunes),
		})
	}
	return records
}

// enrichBatch upgrades records that arrived without a usable summary, capped
// per feed so one noisy source cannot stall the run.
func (a *App) enrichBatch(ctx context.Context, records []update.Record, company string) {
	enriched := 0
	for i := range records {
		if enriched >= a.cfg.EnrichLimit {
			break
		}
		if len(records[i].Summary) >= 5 {
			continue
		}
		if err := a.enricher.Enrich(ctx, &records[i], company); err != nil {
			continue
		}
		metrics.Global.IncrementItemsEnriched()
		enriched++
	}
}
