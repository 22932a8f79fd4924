package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/reugn/go-rotation/rotation"
	"github.com/stretchr/testify/require"
)

// short policy retaining the current date and the three previous days
var shortPolicy = []string{
	"--set", "current_date=2012-01-10",
	"--set", "days_to_retain=3",
	"--set", "weeks_to_retain=0",
	"--set", "months_to_retain=0",
	"--set", "years_to_retain=0",
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--log-level", "off"}, args...))
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func lines(values ...string) string {
	return strings.Join(values, "\n") + "\n"
}

func TestDatesCommand(t *testing.T) {
	out, err := execute(t, context.Background(), append([]string{"dates"}, shortPolicy...)...)
	require.NoError(t, err)
	require.Equal(t, lines("2012-01-10", "2012-01-09", "2012-01-08", "2012-01-07"), out)

	out, err = execute(t, context.Background(),
		append([]string{"dates", "--direction", "future"}, shortPolicy...)...)
	require.NoError(t, err)
	require.Equal(t, lines("2012-01-10", "2012-01-11", "2012-01-12", "2012-01-13"), out)

	_, err = execute(t, context.Background(), "dates", "--direction", "sideways")
	require.ErrorIs(t, err, rotation.ErrInvalidDirection)
}

func TestDatesCommandWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rotation.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`current_date: 2012-02-29
anchor_date: 2012-02-29
days_to_retain: 1
weeks_to_retain: 1
months_to_retain: 1
years_to_retain: 1
direction: future
`), 0o600))

	out, err := execute(t, context.Background(), "dates", "--config", path)
	require.NoError(t, err)
	require.Equal(t, lines("2012-02-29", "2012-03-01", "2012-03-07"), out)

	out, err = execute(t, context.Background(), "dates", "--config", path, "--direction", "past")
	require.NoError(t, err)
	require.Equal(t, lines("2012-02-29", "2012-02-28", "2012-02-22", "2012-02-01", "2011-03-01"), out)
}

func TestTodayCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "today", "--set", "current_date=2012-02-29")
	require.NoError(t, err)
	require.Equal(t, "2012-02-29\n", out)

	out, err = execute(t, context.Background(), "today")
	require.NoError(t, err)
	_, err = time.Parse(time.DateOnly, strings.TrimSpace(out))
	require.NoError(t, err)
}

func TestOptionsCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "options",
		"--set", "current_date=2011-01-01", "--set", "anchor_date=2010-12-31")
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
`, out)
}

func TestInvalidFlags(t *testing.T) {
	_, err := execute(t, context.Background(), "dates", "--set", "days_to_retain=-1")
	require.ErrorIs(t, err, rotation.ErrInvalidOption)

	_, err = execute(t, context.Background(), "dates", "--set", "days_to_retain")
	require.ErrorIs(t, err, rotation.ErrInvalidOption)

	_, err = execute(t, context.Background(), "today", "--log-format", "xml")
	require.Error(t, err)

	_, err = execute(t, context.Background(), "today", "--log-level", "loud")
	require.Error(t, err)

	_, err = execute(t, context.Background(), "today", "--config", "missing.yaml")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLogFormats(t *testing.T) {
	for _, format := range []string{"text", "json", "slog"} {
		_, err := execute(t, context.Background(), "today", "--log-format", format)
		require.NoError(t, err)
	}
}

func createSnapshots(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o600))
	}
	return dir
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestPruneCommand(t *testing.T) {
	dir := createSnapshots(t, "2012-01-01.tar", "2012-01-05.tar", "2012-01-09.tar", "notes.txt")
	args := append([]string{"prune", "--dir", dir}, shortPolicy...)

	out, err := execute(t, context.Background(), append(args, "--dry-run")...)
	require.NoError(t, err)
	require.Equal(t, lines(
		"would delete 2012-01-01.tar",
		"would delete 2012-01-05.tar",
		"kept 1, would delete 2, failed 0, reclaimed 8 B",
	), out)
	require.Len(t, listDir(t, dir), 4)

	out, err = execute(t, context.Background(), args...)
	require.NoError(t, err)
	require.Contains(t, out, "kept 1, deleted 2, failed 0")
	require.Equal(t, []string{"2012-01-09.tar", "notes.txt"}, listDir(t, dir))

	_, err = execute(t, context.Background(), "prune")
	require.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	today := time.Now().Format(time.DateOnly)
	dir := createSnapshots(t, "2000-01-01.tar", today+".tar")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := execute(t, ctx, "run", "--dir", dir, "--schedule", "@yearly", "--run-now")
	require.NoError(t, err)
	require.Equal(t, []string{today + ".tar"}, listDir(t, dir))
}

func TestRunCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, context.Background(), "run", "--dir", dir, "--watch")
	require.Error(t, err)

	_, err = execute(t, context.Background(), "run", "--dir", dir, "--schedule", "every day")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	require.Contains(t, out, "rotation "+Version)
	require.Contains(t, out, "Go Version:")
}
