package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/officialai/aggregator/internal/merge"
	"github.com/officialai/aggregator/internal/store"
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove duplicate records from the store",
	Long:  `One-shot cleanup: drop records sharing a URL, keeping the first occurrence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := store.New(cfg.DataDir)
		records, err := s.Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}

		deduped := merge.Dedupe(records)
		removed := len(records) - len(deduped)
		if removed == 0 {
			fmt.Println("no duplicates found")
			return nil
		}

		if err := s.Save(deduped); err != nil {
			return err
		}
		fmt.Printf("removed %d duplicate records, %d remain\n", removed, len(deduped))
		return nil
	},
}
