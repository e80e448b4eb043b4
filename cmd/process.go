package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Anwitht21/book-extraction/internal/covers"
	"github.com/Anwitht21/book-extraction/internal/models"
	"github.com/spf13/cobra"
)

func newProcessCmd() *cobra.Command {
	var currentRetry int
	var maxRetries int
	var saveCover string

	cmd := &cobra.Command{
		Use:   "process <image>",
		Short: "Process a single book cover image",
		Long: `Runs the full pipeline on one cover image and prints the resulting
book record as JSON.`,
		Example: `  # Process a cover photo
  bookscan process cover.jpg

  # Resubmit after a not-a-cover rejection
  bookscan process cover2.jpg --retry 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := assemble()
			if err != nil {
				return err
			}

			outcome, err := deps.Pipeline.ProcessCover(cmd.Context(), args[0], models.RetryState{
				CurrentAttempt: currentRetry,
				MaxRetries:     maxRetries,
			})
			if err != nil {
				return err
			}

			if saveCover != "" && outcome.Book != nil {
				fetcher := covers.NewFetcher()
				if err := fetcher.Download(cmd.Context(), outcome.Book.ISBN, outcome.Book.CoverImageURL, saveCover); err != nil {
					slog.Warn("could not save cover image", "path", saveCover, "err", err)
				}
			}

			out, err := json.MarshalIndent(outcome, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().IntVar(&currentRetry, "retry", 0, "Number of prior rejected attempts")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Maximum rejected attempts before giving up")
	cmd.Flags().StringVar(&saveCover, "save-cover", "", "Also download the book's cover image to this path")

	return cmd
}
