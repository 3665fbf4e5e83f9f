package main

import (
	"fmt"

	"github.com/sarchlab/casesim/modelfile"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate MODEL...",
	Short: "Check model files for errors.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0

		for _, path := range args {
			_, err := modelfile.Load(path)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				failed++

				continue
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d models are invalid", failed, len(args))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
