package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/reugn/go-rotation/config"
	"github.com/reugn/go-rotation/logger"
	"github.com/reugn/go-rotation/prune"
	"github.com/reugn/go-rotation/rotation"
	"github.com/reugn/go-rotation/schedule"
	"github.com/spf13/cobra"
)

const (
	defaultSchedule = "@daily"
	shutdownTimeout = 10 * time.Second
)

type runFlags struct {
	pruneFlags
	schedule    string
	metricsAddr string
	watch       bool
	runNow      bool
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Prune the snapshot directory on a cron schedule",
		Long: `Run in the foreground, pruning the snapshot directory whenever the cron
schedule fires. Each run evaluates the policy as of the day it runs.
With --watch the policy file is reloaded when it changes; an invalid file
keeps the active policy. Prometheus metrics are served on --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return rf.run(ctx, flags, cmd)
		},
	}
	rf.register(cmd)
	cmd.Flags().StringVar(&rf.schedule, "schedule", "",
		"cron expression of the prune runs (prune.schedule, default \"@daily\")")
	cmd.Flags().StringVar(&rf.metricsAddr, "metrics-addr", "",
		"address of the Prometheus metrics endpoint, disabled when empty")
	cmd.Flags().BoolVar(&rf.watch, "watch", false, "reload the policy file on change")
	cmd.Flags().BoolVar(&rf.runNow, "run-now", false, "prune once at startup")
	return cmd
}

func (rf *runFlags) run(ctx context.Context, flags *globalFlags, cmd *cobra.Command) error {
	log := logger.Default()

	cfg, calendar, err := flags.calendar(ctx)
	if err != nil {
		return err
	}
	if err := rf.apply(cmd, cfg); err != nil {
		return err
	}
	if rf.watch && flags.configPath == "" {
		return errors.New("--watch requires --config")
	}

	expression := cfg.Prune.Schedule
	if cmd.Flags().Changed("schedule") {
		expression = rf.schedule
	}
	if expression == "" {
		expression = defaultSchedule
	}
	trigger, err := schedule.NewCronTrigger(expression)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := prune.NewMetrics(registry)
	if err != nil {
		return err
	}

	pruner, err := prune.NewPruner(prune.NewDirStore(cfg.Prune.Directory), calendar,
		prune.Options{
			DryRun:      cfg.Prune.DryRun,
			Concurrency: cfg.Prune.Concurrency,
			Clock:       rotation.SystemClock{},
			Metrics:     metrics,
		})
	if err != nil {
		return err
	}
	job := schedule.NewIsolatedJob(prune.NewJob(pruner))

	sched := schedule.NewScheduler()
	sched.Start(ctx)
	if err := sched.ScheduleJob(ctx, job, trigger); err != nil {
		return err
	}
	if rf.runNow {
		if err := sched.ScheduleJob(ctx, job, schedule.NewRunOnceTrigger(0)); err != nil {
			return err
		}
	}
	log.Info("Prune scheduled", "dir", cfg.Prune.Directory, "schedule", expression,
		"dry_run", cfg.Prune.DryRun, "policy", calendar.Policy())

	errs := make(chan error, 2)
	if rf.metricsAddr != "" {
		server := newMetricsServer(rf.metricsAddr, registry)
		go func() {
			log.Info("Serving metrics", "addr", rf.metricsAddr)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errs <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	if rf.watch {
		watcher, err := config.NewWatcher(flags.configPath, calendar, config.WatcherOptions{
			Load: flags.loadConfig,
		})
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				errs <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errs:
	}

	sched.Stop()
	waitCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	sched.Wait(waitCtx)
	log.Info("Stopped")
	return err
}

func newMetricsServer(addr string, registry *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
