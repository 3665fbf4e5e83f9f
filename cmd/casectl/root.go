package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var envFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "casectl",
	Short: "casectl runs and inspects case models.",
	Long: `casectl loads case models from TOML or YAML files. It can ` +
		`validate a model, run it on the serial engine and export the ` +
		`structure it builds.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(envFile)
		if err != nil {
			return err
		}

		setupLogger(cfg)
		activeConfig = cfg

		return nil
	},
}

var activeConfig = defaultConfig()

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env",
		"Environment file to load before reading CASESIM_* variables")
}

func setupLogger(cfg config) {
	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
