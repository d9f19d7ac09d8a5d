package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/officialai/aggregator/internal/logger"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Backfill preview images for records missing one",
	Long: `Fetch the article page of every stored record without an image and pull
its open-graph or twitter-card image. Pages are fetched in small concurrent
batches with a delay between batches.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		records, err := a.Store().Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}

		var missing []int
		for i, rec := range records {
			if rec.Image == "" {
				missing = append(missing, i)
			}
		}
		fmt.Printf("found %d records without images (of %d total)\n", len(missing), len(records))
		if len(missing) == 0 {
			return nil
		}

		ctx := context.Background()
		var filled int64

		for start := 0; start < len(missing); start += cfg.ImageBatchSize {
			end := start + cfg.ImageBatchSize
			if end > len(missing) {
				end = len(missing)
			}

			g, gctx := errgroup.WithContext(ctx)
			for _, idx := range missing[start:end] {
				idx := idx
				g.Go(func() error {
					img, err := a.Enricher().ImageForURL(gctx, records[idx].URL)
					if err != nil {
						logger.Debug("image fetch failed", "url", records[idx].URL, "error", err)
						return nil // best effort, skip
					}
					if img != "" {
						records[idx].Image = img
						atomic.AddInt64(&filled, 1)
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Printf("  progress: %d/%d\n", end, len(missing))
			if end < len(missing) {
				time.Sleep(cfg.ImageBatchDelay)
			}
		}

		if err := a.Store().Save(records); err != nil {
			return err
		}
		fmt.Printf("filled %d images out of %d missing\n", filled, len(missing))
		return nil
	},
}
