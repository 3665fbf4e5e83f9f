package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/casesim/analysis"
	"github.com/sarchlab/casesim/datarecording"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report RECORDING",
	Short: "Summarize a recording as CSV.",
	Long: `report reads the cycles and structural edits of a sqlite ` +
		`recording written by run and prints per-candidate metrics.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(args[0]); err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")

		var w io.Writer = cmd.OutOrStdout()

		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			w = f
		}

		reader := datarecording.NewReader(args[0])
		defer reader.Close()

		analyzer := analysis.NewAnalyzer(reader, analysis.NewCSVBackend(w))

		if _, err := analyzer.Analyze(context.Background()); err != nil {
			return fmt.Errorf("analyze %s: %w", args[0], err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("output", "o", "",
		"Write to a file instead of stdout")
}
