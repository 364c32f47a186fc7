package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ARTM2000/thicket"
	"github.com/ARTM2000/thicket/internal/scenefile"
	"github.com/spf13/cobra"
)

var (
	flagFormat    string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "thicket",
	Short:         "Resolve scene graph dependencies declared in a fixture",
	Long:          "Thicket builds a scene from a YAML or HCL fixture, activates its probes and reports where every binding resolved.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text|json")

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(treeCmd)
}

var flagTicks int

var resolveCmd = &cobra.Command{
	Use:   "resolve <fixture>",
	Short: "Activate every probe and report the resolved bindings",
	Long:  "Builds the fixture, activates its probes, then ticks until every loading partition has loaded or --ticks is reached.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(flagLogLevel, flagLogFormat, cmd.ErrOrStderr())
		report, err := runResolve(args[0], flagTicks, log)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), flagFormat, report)
	},
}

func init() {
	resolveCmd.Flags().IntVar(&flagTicks, "ticks", 10, "maximum number of ticks to run")
}

var treeCmd = &cobra.Command{
	Use:   "tree <fixture>",
	Short: "Print the scene built from a fixture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadScene(args[0])
		if err != nil {
			return err
		}
		return writeTree(cmd.OutOrStdout(), flagFormat, s.World)
	},
}

func loadScene(path string) (*scenefile.Scene, error) {
	f, err := scenefile.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := f.Build()
	if err != nil {
		return nil, fmt.Errorf("building scene: %w", err)
	}
	return s, nil
}

// runResolve loads the fixture at path and resolves it.
func runResolve(path string, maxTicks int, log *slog.Logger) (Report, error) {
	s, err := loadScene(path)
	if err != nil {
		return Report{}, err
	}
	return resolveScene(s, maxTicks, log), nil
}

// resolveScene wakes the loaded partitions, then ticks until nothing is
// pending and every partition has loaded, or maxTicks runs out.
func resolveScene(s *scenefile.Scene, maxTicks int, log *slog.Logger) Report {
	ctx := thicket.New(s.World, thicket.WithLogger(log))
	for _, p := range thicket.EnumeratePartitions(s.World, nil) {
		if p.IsLoaded() {
			ctx.AwakePartition(p)
		}
	}

	// Behaviours in a streamed partition wake when it loads.
	tick := 0
	for (ctx.Pending() > 0 || !s.Settled()) && tick < maxTicks {
		tick++
		for _, p := range s.Advance(tick) {
			log.Debug("partition loaded", slog.String("partition", p.Name()), slog.Int("tick", tick))
			ctx.AwakePartition(p)
		}
		ctx.Tick()
	}

	report := Report{Ticks: tick, Pending: ctx.Pending()}
	for _, p := range ctx.Scheduler().Waiting() {
		report.Waiting = append(report.Waiting, p.Name())
	}
	for _, probe := range s.Probes {
		report.Results = append(report.Results, probe.Results()...)
	}
	return report
}

// newLogger builds the logger resolution records go to.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}
