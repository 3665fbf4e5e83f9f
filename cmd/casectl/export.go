package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/casesim/export"
	"github.com/sarchlab/casesim/modelfile"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export MODEL",
	Short: "Build a model and print the structure it creates.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatName, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(formatName)
		if err != nil {
			return err
		}

		spec, err := modelfile.Load(args[0])
		if err != nil {
			return err
		}

		c, err := modelfile.Build(spec)
		if err != nil {
			return fmt.Errorf("build %s: %w", spec.Name, err)
		}

		var w io.Writer = cmd.OutOrStdout()

		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			w = f
		}

		return export.Encode(w, c, format)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "f", "json",
		"Output format: json, yaml or toml")
	exportCmd.Flags().StringP("output", "o", "",
		"Write to a file instead of stdout")
}
