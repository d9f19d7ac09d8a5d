package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/officialai/aggregator/internal/fetcher"
	"github.com/officialai/aggregator/internal/store"
)

const verifySample = 50

type verifyResult struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
	Status  int    `json:"status,omitempty"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type verifyReport struct {
	Timestamp    time.Time      `json:"timestamp"`
	TotalChecked int            `json:"totalChecked"`
	BrokenCount  int            `json:"brokenCount"`
	Results      []verifyResult `json:"results"`
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Probe stored article URLs and write a verification report",
	Long: `GET the first 50 stored article URLs and report their status codes to
logs/source-verification-report.json. Uses GET rather than HEAD because some
sites block HEAD requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := store.New(cfg.DataDir).Load()
		if err != nil {
			return fmt.Errorf("load store: %w", err)
		}
		if len(records) > verifySample {
			records = records[:verifySample]
		}

		f := fetcher.New(10 * time.Second)
		report := verifyReport{Timestamp: time.Now().UTC(), TotalChecked: len(records)}

		for _, rec := range records {
			result := verifyResult{Title: rec.Title, Company: rec.Company, URL: rec.URL}

			status, err := f.Probe(context.Background(), rec.URL)
			if err != nil {
				result.Error = err.Error()
				fmt.Printf("[ERROR] %s: %v\n", rec.URL, err)
			} else {
				result.Status = status
				result.OK = status >= 200 && status < 300
				fmt.Printf("[%d] %s\n", status, rec.URL)
			}
			if !result.OK {
				report.BrokenCount++
			}
			report.Results = append(report.Results, result)
		}

		logsDir := "logs"
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			return err
		}
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		path := filepath.Join(logsDir, "source-verification-report.json")
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return err
		}

		fmt.Printf("\nverification complete: %d issues in a sample of %d\n", report.BrokenCount, report.TotalChecked)
		fmt.Printf("report saved to %s\n", path)
		return nil
	},
}
