package evalcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Anwitht21/book-extraction/internal/eval/dataset"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var datasetPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect labeled dataset records",
		Long: `Inspect records from a parquet or jsonl dataset file.

Useful for checking that a dataset's metadata and labels parsed the way
you expect before running an evaluation over it.`,
		Example: `  # Inspect first 5 records
  bookscan eval inspect --dataset ./books.parquet --limit 5

  # Inspect all records (no limit)
  bookscan eval inspect --dataset ./books.jsonl --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				return fmt.Errorf("--dataset is required")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return executeInspect(ctx, datasetPath, limit)
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Path to parquet or jsonl dataset file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of records to inspect (0 for all)")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func executeInspect(ctx context.Context, datasetPath string, limit int) error {
	loader := dataset.NewLoader(datasetPath)

	var records []dataset.LabeledRecord
	var err error

	if limit > 0 {
		records, err = loader.LoadSample(limit)
	} else {
		records, err = loader.Load()
	}

	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	fmt.Printf("Loaded %d records from %s\n", len(records), datasetPath)
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	for i, record := range records {
		select {
		case <-ctx.Done():
			fmt.Println("\nInspection interrupted.")
			return nil
		default:
		}

		fmt.Printf("RECORD %d/%d\n", i+1, len(records))
		fmt.Println(strings.Repeat("-", 80))

		fmt.Printf("ID:             %s\n", record.ID)
		fmt.Printf("Title:          %s\n", record.Title)
		fmt.Printf("Author:         %s\n", record.Author)
		if record.MainCategory != "" {
			fmt.Printf("Main Category:  %s\n", record.MainCategory)
		}
		if len(record.Categories) > 0 {
			fmt.Printf("Categories:     %s\n", strings.Join(record.Categories, ", "))
		}
		if record.ISBN != "" {
			fmt.Printf("ISBN:           %s\n", record.ISBN)
		}
		fmt.Printf("Fiction:        %t\n", record.IsFiction)

		if record.Description != "" {
			description := record.Description
			truncated := false
			maxChars := 500
			if len(description) > maxChars {
				description = description[:maxChars]
				truncated = true
			}
			fmt.Println()
			fmt.Println("DESCRIPTION:")
			fmt.Println(description)
			if truncated {
				fmt.Printf("\n[... truncated, showing first %d of %d characters ...]\n", maxChars, len(record.Description))
			}
		}

		fmt.Println()
	}

	return nil
}
