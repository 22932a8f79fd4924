package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/reugn/go-rotation/config"
	"github.com/reugn/go-rotation/rotation"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"
)

var testClock = rotation.FixedClock{Year: 2011, Month: 1, Day: 1}

const policyFile = `
current_date: 2012-02-29
anchor_date: "2011-06-15"
days_to_retain: 2
weeks_to_retain: 0
months_to_retain: 1
years_to_retain: 1
direction: future
prune:
  directory: /var/backups
  schedule: "@daily"
  dry_run: true
  concurrency: 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rotation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(policyFile))
	require.NoError(t, err)

	require.Equal(t, "2012-02-29", *cfg.CurrentDate)
	require.Equal(t, 2, *cfg.DaysToRetain)
	require.Nil(t, cfg.BackupDayOfWeek)
	require.Equal(t, config.PruneConfig{
		Directory:   "/var/backups",
		Schedule:    "@daily",
		DryRun:      true,
		Concurrency: 2,
	}, cfg.Prune)

	direction, err := cfg.DateDirection()
	require.NoError(t, err)
	require.Equal(t, rotation.Future, direction)

	policy, err := cfg.Policy(testClock)
	require.NoError(t, err)
	require.Equal(t, "2012-02-29", policy.CurrentDate().String())
	require.Equal(t, 3, policy.BackupDayOfWeek()) // 2011-06-15 is a Wednesday
	require.Equal(t, 15, policy.BackupDayOfMonth())
	require.Equal(t, 6, policy.BackupMonthOfYear())
	require.Equal(t, rotation.DefaultAutoCorrect, policy.AutoCorrect())

	dates, err := rotation.Generate(policy, direction)
	require.NoError(t, err)
	require.Equal(t, []string{
		"2012-02-29", "2012-03-01", "2012-03-02", "2012-03-15", "2012-06-15",
	}, dates.Strings(direction))
}

func TestParseEmpty(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Empty(t, opts)

	direction, err := cfg.DateDirection()
	require.NoError(t, err)
	require.Equal(t, rotation.Past, direction)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "days_to_keep: 3\n"},
		{"wrong type", "days_to_retain: many\n"},
		{"invalid value", "years_to_retain: -1\n"},
		{"invalid date", "anchor_date: 2011-02-30\n"},
		{"invalid direction", "direction: sideways\n"},
		{"negative concurrency", "prune:\n  concurrency: -1\n"},
		{"malformed", "days_to_retain: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tt.content))
			require.Error(t, err)
		})
	}

	_, err := config.Parse([]byte("backup_day_of_month: 31\nauto_correct_backup_dates: false\n"))
	require.ErrorIs(t, err, rotation.ErrInvalidOption)

	_, err = config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverrides(t *testing.T) {
	cfg, err := config.Parse([]byte("days_to_retain: 2\nanchor_date: 2011-06-15\n"))
	require.NoError(t, err)

	require.NoError(t, cfg.SetPair("days_to_retain=9"))
	require.NoError(t, cfg.Set(rotation.OptionAnchorDate, ""))
	require.ErrorIs(t, cfg.SetPair("weeks_to_retain"), rotation.ErrInvalidOption)
	require.ErrorIs(t, cfg.SetPair("unknown=1"), rotation.ErrInvalidOption)
	require.ErrorIs(t, cfg.SetPair("days_to_retain=x"), rotation.ErrInvalidOption)

	policy, err := cfg.Policy(testClock)
	require.NoError(t, err)
	require.Equal(t, 9, policy.DaysToRetain())
	require.False(t, policy.HasAnchorDate())
}

func TestPolicyConfigOf(t *testing.T) {
	policy, err := rotation.NewPolicy(testClock, rotation.WithAnchorDate("2010-12-31"))
	require.NoError(t, err)

	data, err := config.PolicyConfigOf(policy).Marshal()
	require.NoError(t, err)
	require.Equal(t, `current_date: "2011-01-01"
anchor_date: "2010-12-31"
auto_correct_backup_dates: true
backup_day_of_week: 5
backup_day_of_month: 1
backup_month_of_year: 1
days_to_retain: 6
weeks_to_retain: 3
months_to_retain: 6
years_to_retain: 10
`, string(data))

	// the printed configuration loads back into the same policy
	cfg, err := config.Parse(data)
	require.NoError(t, err)
	reloaded, err := cfg.Policy(rotation.FixedClock{Year: 2020, Month: 1, Day: 1})
	require.NoError(t, err)
	require.Equal(t, policy.String(), reloaded.String())
}

func TestLoadWithEnv(t *testing.T) {
	ctx := context.Background()
	path := writeConfig(t, policyFile)

	lookuper := envconfig.MapLookuper(map[string]string{
		"ROTATION_DAYS_TO_RETAIN":    "4",
		"ROTATION_ANCHOR_DATE":       "",
		"ROTATION_DIRECTION":         "past",
		"ROTATION_PRUNE_DIRECTORY":   "/srv/snapshots",
		"ROTATION_PRUNE_DRY_RUN":     "false",
		"ROTATION_PRUNE_CONCURRENCY": "8",
		"DAYS_TO_RETAIN":             "100",
	})
	cfg, err := config.Load(ctx, path, lookuper)
	require.NoError(t, err)

	require.Equal(t, "past", cfg.Direction)
	require.Equal(t, "/srv/snapshots", cfg.Prune.Directory)
	require.Equal(t, "@daily", cfg.Prune.Schedule)
	require.False(t, cfg.Prune.DryRun)
	require.Equal(t, 8, cfg.Prune.Concurrency)

	policy, err := cfg.Policy(testClock)
	require.NoError(t, err)
	require.Equal(t, 4, policy.DaysToRetain())
	require.True(t, policy.HasAnchorDate())
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := config.Load(context.Background(), "", envconfig.MapLookuper(map[string]string{
		"ROTATION_YEARS_TO_RETAIN": "3",
	}))
	require.NoError(t, err)

	policy, err := cfg.Policy(testClock)
	require.NoError(t, err)
	require.Equal(t, 3, policy.YearsToRetain())
	require.Equal(t, rotation.DefaultDaysToRetain, policy.DaysToRetain())
}

func TestLoadEnvErrors(t *testing.T) {
	for name, value := range map[string]string{
		"ROTATION_WEEKS_TO_RETAIN":   "three",
		"ROTATION_MONTHS_TO_RETAIN":  "-2",
		"ROTATION_PRUNE_DRY_RUN":     "maybe",
		"ROTATION_PRUNE_CONCURRENCY": "x",
		"ROTATION_DIRECTION":         "up",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(context.Background(), "", envconfig.MapLookuper(map[string]string{
				name: value,
			}))
			require.Error(t, err)
		})
	}
}
