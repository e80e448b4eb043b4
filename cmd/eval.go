package cmd

import (
	"github.com/Anwitht21/book-extraction/internal/evalcmd"
	"github.com/spf13/cobra"
)

func newEvalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Fiction classification evaluation tools",
		Long: `Evaluation tools for measuring fiction/non-fiction classification accuracy
against labeled datasets.

Supports both the metadata keyword heuristic and the configured vision
provider, and writes detailed per-record results as YAML.`,
	}

	cmd.AddCommand(evalcmd.NewRunCmd())
	cmd.AddCommand(evalcmd.NewInspectCmd())

	return cmd
}
