package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/reugn/go-rotation/config"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/rotation"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags shared by all commands.
type globalFlags struct {
	configPath string
	sets       []string
	logLevel   string
	logFormat  string
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Round robin date based backup rotation",
		Long: `Rotation decides which dated backups to keep under a round robin retention
policy: a number of recent days, weeks, months and years, each aligned to a
backup schedule, around a current date.

Options are read from an optional YAML policy file, ROTATION_* environment
variables and repeated --set name=value flags, in increasing precedence.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return flags.setupLogger(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "policy file path")
	cmd.PersistentFlags().StringArrayVarP(&flags.sets, "set", "s", nil,
		"override a policy option as name=value (repeatable)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info",
		"log level: trace, debug, info, warn, error or off")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text",
		"log format: text, json or slog")

	cmd.AddCommand(
		newDatesCmd(flags),
		newTodayCmd(flags),
		newOptionsCmd(flags),
		newPruneCmd(flags),
		newRunCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

func (f *globalFlags) setupLogger(w io.Writer) error {
	level, err := logger.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}

	switch f.logFormat {
	case "text":
		logger.SetDefault(logger.NewSimpleLogger(log.New(w, "", log.LstdFlags), level))
	case "json":
		logger.SetDefault(logger.NewJSONZapLogger(level))
	case "slog":
		handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})
		logger.SetDefault(logger.NewSlogLogger(slog.New(handler)))
	default:
		return fmt.Errorf("unknown log format %q", f.logFormat)
	}
	return nil
}

// loadConfig reads the policy file at path with the environment overlay
// and applies the --set overrides.
func (f *globalFlags) loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(ctx, path, envconfig.OsLookuper())
	if err != nil {
		return nil, err
	}
	for _, pair := range f.sets {
		if err := cfg.SetPair(pair); err != nil {
			return nil, fmt.Errorf("--set %s: %w", pair, err)
		}
	}
	return cfg, nil
}

// calendar loads the configuration and builds the calendar of its policy.
func (f *globalFlags) calendar(ctx context.Context) (*config.Config, *rotation.Calendar, error) {
	cfg, err := f.loadConfig(ctx, f.configPath)
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	calendar, err := rotation.NewCalendar(opts...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, calendar, nil
}
