package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/officialai/aggregator/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate stored records that still lack Arabic text",
	Long: `Run the translator chain over the persisted store. Records already
carrying a translation are skipped, so the command is safe to re-run until the
whole store is covered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp()
		if err != nil {
			return err
		}

		records, err := a.Store().Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("store is empty, nothing to translate")
			return nil
		}

		n, err := a.TranslateRecords(ctx, records)
		if err != nil && !errors.Is(err, translate.ErrBudgetExhausted) {
			return err
		}

		if err := a.Store().Save(records); err != nil {
			return err
		}
		fmt.Printf("translated %d records\n", n)
		if errors.Is(err, translate.ErrBudgetExhausted) {
			fmt.Println("request budget exhausted, re-run to continue")
		}
		return nil
	},
}
