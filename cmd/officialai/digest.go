package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/officialai/aggregator/internal/digest"
	"github.com/officialai/aggregator/internal/store"
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Write the weekly plain-text digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.New(cfg.DataDir).Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}

		path, err := digest.Write(cfg.DataDir, records, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("digest written to %s\n", path)
		return nil
	},
}
