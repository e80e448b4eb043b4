package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookscan",
		Short: "Book cover identification and preview extraction tool",
		Long: `Bookscan turns a photo of a book cover into structured metadata and
preview text.

It chains OCR, a vision-capable LLM, the Open Library and Google Books
APIs, and a reader-page scraper, degrading gracefully whenever a
provider has nothing to offer.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newProcessCmd())
	cmd.AddCommand(newEvalCmd())

	return cmd
}
