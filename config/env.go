package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/reugn/go-rotation/rotation"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is the prefix of the environment variables read by LoadEnv.
const EnvPrefix = "ROTATION_"

// Env holds the environment overlay, for example ROTATION_DAYS_TO_RETAIN=8.
// Empty variables are ignored.
type Env struct {
	CurrentDate            string `env:"CURRENT_DATE"`
	AnchorDate             string `env:"ANCHOR_DATE"`
	AutoCorrectBackupDates string `env:"AUTO_CORRECT_BACKUP_DATES"`
	BackupDayOfWeek        string `env:"BACKUP_DAY_OF_WEEK"`
	BackupDayOfMonth       string `env:"BACKUP_DAY_OF_MONTH"`
	BackupMonthOfYear      string `env:"BACKUP_MONTH_OF_YEAR"`
	DaysToRetain           string `env:"DAYS_TO_RETAIN"`
	WeeksToRetain          string `env:"WEEKS_TO_RETAIN"`
	MonthsToRetain         string `env:"MONTHS_TO_RETAIN"`
	YearsToRetain          string `env:"YEARS_TO_RETAIN"`

	Direction        string `env:"DIRECTION"`
	PruneDirectory   string `env:"PRUNE_DIRECTORY"`
	PruneSchedule    string `env:"PRUNE_SCHEDULE"`
	PruneDryRun      string `env:"PRUNE_DRY_RUN"`
	PruneConcurrency string `env:"PRUNE_CONCURRENCY"`
}

// LoadEnv reads the prefixed environment variables using the given
// lookuper, envconfig.OsLookuper() for the process environment.
func LoadEnv(ctx context.Context, lookuper envconfig.Lookuper) (*Env, error) {
	var env Env
	if err := envconfig.ProcessWith(ctx, &env, envconfig.PrefixLookuper(EnvPrefix, lookuper)); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &env, nil
}

// Apply overlays the set variables on cfg.
func (e *Env) Apply(cfg *Config) error {
	for _, o := range []override{
		{rotation.OptionCurrentDate, e.CurrentDate},
		{rotation.OptionAnchorDate, e.AnchorDate},
		{rotation.OptionAutoCorrect, e.AutoCorrectBackupDates},
		{rotation.OptionBackupDayOfWeek, e.BackupDayOfWeek},
		{rotation.OptionBackupDayOfMonth, e.BackupDayOfMonth},
		{rotation.OptionBackupMonthOfYear, e.BackupMonthOfYear},
		{rotation.OptionDaysToRetain, e.DaysToRetain},
		{rotation.OptionWeeksToRetain, e.WeeksToRetain},
		{rotation.OptionMonthsToRetain, e.MonthsToRetain},
		{rotation.OptionYearsToRetain, e.YearsToRetain},
	} {
		if o.value == "" {
			continue
		}
		if err := cfg.Set(o.name, o.value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, envName(o.name), err)
		}
	}

	if e.Direction != "" {
		cfg.Direction = e.Direction
	}
	if e.PruneDirectory != "" {
		cfg.Prune.Directory = e.PruneDirectory
	}
	if e.PruneSchedule != "" {
		cfg.Prune.Schedule = e.PruneSchedule
	}
	if e.PruneDryRun != "" {
		dryRun, err := strconv.ParseBool(e.PruneDryRun)
		if err != nil {
			return fmt.Errorf("%sPRUNE_DRY_RUN: %w", EnvPrefix, err)
		}
		cfg.Prune.DryRun = dryRun
	}
	if e.PruneConcurrency != "" {
		concurrency, err := strconv.Atoi(e.PruneConcurrency)
		if err != nil {
			return fmt.Errorf("%sPRUNE_CONCURRENCY: %w", EnvPrefix, err)
		}
		cfg.Prune.Concurrency = concurrency
	}
	return cfg.Validate()
}

// Load reads the policy file at path, or starts from an empty
// configuration when path is empty, and overlays the environment.
func Load(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	}

	env, err := LoadEnv(ctx, lookuper)
	if err != nil {
		return nil, err
	}
	if err := env.Apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envName(option string) string {
	return strings.ToUpper(option)
}
