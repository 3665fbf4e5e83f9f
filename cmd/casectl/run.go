package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sarchlab/casesim/caseactor"
	"github.com/sarchlab/casesim/modelfile"
	"github.com/sarchlab/casesim/sim"
	"github.com/sarchlab/casesim/simulation"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run MODEL...",
	Short: "Run one or more case models together.",
	Long: `run builds every model and drives each case once per cycle on ` +
		`a shared serial engine. Every cycle and structural edit is ` +
		`recorded unless --no-record is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptionsFromFlags(cmd, activeConfig)
		if err != nil {
			return err
		}

		return runModels(args, opts)
	},
}

type runOptions struct {
	maxCycles   uint64
	monitor     bool
	monitorPort int
	record      bool
	recordPath  string
	open        bool
	hold        time.Duration
}

func runOptionsFromFlags(cmd *cobra.Command, cfg config) (runOptions, error) {
	flags := cmd.Flags()

	opts := runOptions{
		maxCycles:   cfg.MaxCycles,
		monitorPort: cfg.MonitorPort,
		recordPath:  cfg.RecordPath,
	}

	if flags.Changed("max-cycles") {
		opts.maxCycles, _ = flags.GetUint64("max-cycles")
	}

	if flags.Changed("port") {
		opts.monitorPort, _ = flags.GetInt("port")
	}

	if flags.Changed("output") {
		opts.recordPath, _ = flags.GetString("output")
	}

	noMonitor, _ := flags.GetBool("no-monitor")
	noRecord, _ := flags.GetBool("no-record")
	opts.monitor = !noMonitor
	opts.record = !noRecord
	opts.open, _ = flags.GetBool("open")
	opts.hold, _ = flags.GetDuration("hold")

	if opts.open && !opts.monitor {
		return opts, fmt.Errorf("--open needs the monitor")
	}

	return opts, nil
}

func runModels(paths []string, opts runOptions) error {
	cases := make([]*caseactor.Case, 0, len(paths))

	for _, path := range paths {
		spec, err := modelfile.Load(path)
		if err != nil {
			return err
		}

		c, err := modelfile.Build(spec)
		if err != nil {
			return fmt.Errorf("build %s: %w", spec.Name, err)
		}

		cases = append(cases, c)
	}

	s := buildSimulation(opts)

	logHook := sim.NewLogHook(log.Logger)

	for _, c := range cases {
		c.AcceptHook(logHook)

		d := s.RegisterCase(c)
		d.AcceptHook(sim.NewLogHook(log.Logger).
			WithLevel(zerolog.InfoLevel).
			OnlyAt(caseactor.HookPosDriverStopped))
	}

	if opts.open {
		url := "http://localhost:" + strconv.Itoa(s.MonitorPort())
		if err := browser.OpenURL(url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("cannot open browser")
		}
	}

	runErr := s.Run()

	printSummary(s)

	if opts.monitor && opts.hold > 0 {
		log.Info().Dur("hold", opts.hold).Msg("keeping the monitor up")
		time.Sleep(opts.hold)
	}

	if err := s.Terminate(); err != nil {
		return fmt.Errorf("close recording: %w", err)
	}

	return runErr
}

func buildSimulation(opts runOptions) *simulation.Simulation {
	b := simulation.MakeBuilder().WithMaxCycles(opts.maxCycles)

	if opts.monitor {
		b = b.WithMonitorPort(opts.monitorPort)
	} else {
		b = b.WithoutMonitoring()
	}

	if !opts.record {
		b = b.WithoutRecording()
	} else if opts.recordPath != "" {
		b = b.WithOutputFileName(opts.recordPath)
	}

	return b.Build()
}

func printSummary(s *simulation.Simulation) {
	counter := s.GetCounter()

	for _, d := range s.Drivers() {
		log.Info().
			Str("case", d.Case().Name()).
			Uint64("cycles", d.Cycles()).
			Str("stopped", string(d.Stopped())).
			Msg("case finished")
	}

	for _, name := range counter.Candidates() {
		log.Info().
			Str("candidate", name).
			Uint64("runs", counter.Runs(name)).
			Msg("candidate runs")
	}

	log.Info().
		Uint64("skipped", counter.Skipped()).
		Uint64("failures", counter.Failures()).
		Msg("totals")
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.Uint64("max-cycles", defaultMaxCycles,
		"Cycles each case runs at most, 0 for no limit")
	f.Int("port", 0, "Monitor port, 0 picks a free one")
	f.StringP("output", "o", "", "Recording file name without extension")
	f.Bool("no-monitor", false, "Do not start the monitor")
	f.Bool("no-record", false, "Do not record to sqlite")
	f.Bool("open", false, "Open the monitor in a browser")
	f.Duration("hold", 0, "Keep the monitor up this long after the run")
}
