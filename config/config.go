// Package config loads rotation policies from YAML files and the
// environment, and keeps a calendar in sync with its policy file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reugn/go-rotation/rotation"
	"gopkg.in/yaml.v3"
)

// PolicyConfig holds the retention options of a policy file. Unset
// fields keep their default values.
type PolicyConfig struct {
	CurrentDate            *string `yaml:"current_date,omitempty"`
	AnchorDate             *string `yaml:"anchor_date,omitempty"`
	AutoCorrectBackupDates *bool   `yaml:"auto_correct_backup_dates,omitempty"`
	BackupDayOfWeek        *int    `yaml:"backup_day_of_week,omitempty"`
	BackupDayOfMonth       *int    `yaml:"backup_day_of_month,omitempty"`
	BackupMonthOfYear      *int    `yaml:"backup_month_of_year,omitempty"`
	DaysToRetain           *int    `yaml:"days_to_retain,omitempty"`
	WeeksToRetain          *int    `yaml:"weeks_to_retain,omitempty"`
	MonthsToRetain         *int    `yaml:"months_to_retain,omitempty"`
	YearsToRetain          *int    `yaml:"years_to_retain,omitempty"`
}

// PruneConfig configures pruning of a snapshot directory.
type PruneConfig struct {
	Directory   string `yaml:"directory,omitempty"`
	Schedule    string `yaml:"schedule,omitempty"`
	DryRun      bool   `yaml:"dry_run,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// Config is the content of a policy file.
type Config struct {
	PolicyConfig `yaml:",inline"`

	// Direction is the default direction of generated dates.
	Direction string      `yaml:"direction,omitempty"`
	Prune     PruneConfig `yaml:"prune,omitempty"`

	// name=value overrides applied after the file options
	overrides []override
}

type override struct {
	name  string
	value string
}

// Parse decodes a policy file. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the policy file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Set records an override of the named option, using the string coercion
// rules of rotation.ParseOption. Overrides win over file values and are
// applied in the order they were set.
func (c *Config) Set(name, value string) error {
	if _, err := rotation.ParseOption(name, value); err != nil {
		return err
	}
	c.overrides = append(c.overrides, override{name: name, value: value})
	return nil
}

// SetPair records an override given as "name=value".
func (c *Config) SetPair(pair string) error {
	name, value, ok := strings.Cut(pair, "=")
	if !ok {
		return fmt.Errorf("%w: %q is not a name=value pair", rotation.ErrInvalidOption, pair)
	}
	return c.Set(strings.TrimSpace(name), value)
}

// Options returns the policy options of the configuration, file values
// first and overrides last.
func (c *Config) Options() ([]rotation.Option, error) {
	opts := c.PolicyConfig.Options()
	for _, o := range c.overrides {
		opt, err := rotation.ParseOption(o.name, o.value)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// Policy builds the policy of the configuration from the defaults.
func (c *Config) Policy(clock rotation.Clock) (rotation.Policy, error) {
	opts, err := c.Options()
	if err != nil {
		return rotation.Policy{}, err
	}
	return rotation.NewPolicy(clock, opts...)
}

// DateDirection returns the configured direction, Past when unset.
func (c *Config) DateDirection() (rotation.Direction, error) {
	if c.Direction == "" {
		return rotation.Past, nil
	}
	return rotation.ParseDirection(c.Direction)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := c.DateDirection(); err != nil {
		return err
	}
	if c.Prune.Concurrency < 0 {
		return errors.New("prune concurrency must not be negative")
	}
	_, err := c.Policy(rotation.SystemClock{})
	return err
}

// Options converts the set fields into rotation options.
func (p PolicyConfig) Options() []rotation.Option {
	var opts []rotation.Option
	if p.CurrentDate != nil {
		opts = append(opts, rotation.WithCurrentDate(*p.CurrentDate))
	}
	if p.AnchorDate != nil {
		if *p.AnchorDate == "" {
			opts = append(opts, rotation.WithoutAnchorDate())
		} else {
			opts = append(opts, rotation.WithAnchorDate(*p.AnchorDate))
		}
	}
	if p.AutoCorrectBackupDates != nil {
		opts = append(opts, rotation.WithAutoCorrect(*p.AutoCorrectBackupDates))
	}
	for _, field := range []struct {
		value *int
		with  func(int) rotation.Option
	}{
		{p.BackupDayOfWeek, rotation.WithBackupDayOfWeek},
		{p.BackupDayOfMonth, rotation.WithBackupDayOfMonth},
		{p.BackupMonthOfYear, rotation.WithBackupMonthOfYear},
		{p.DaysToRetain, rotation.WithDaysToRetain},
		{p.WeeksToRetain, rotation.WithWeeksToRetain},
		{p.MonthsToRetain, rotation.WithMonthsToRetain},
		{p.YearsToRetain, rotation.WithYearsToRetain},
	} {
		if field.value != nil {
			opts = append(opts, field.with(*field.value))
		}
	}
	return opts
}

// PolicyConfigOf returns the fully populated configuration of a policy.
func PolicyConfigOf(policy rotation.Policy) PolicyConfig {
	config := PolicyConfig{
		CurrentDate:            ptr(policy.CurrentDate().String()),
		AutoCorrectBackupDates: ptr(policy.AutoCorrect()),
		BackupDayOfWeek:        ptr(policy.BackupDayOfWeek()),
		BackupDayOfMonth:       ptr(policy.BackupDayOfMonth()),
		BackupMonthOfYear:      ptr(policy.BackupMonthOfYear()),
		DaysToRetain:           ptr(policy.DaysToRetain()),
		WeeksToRetain:          ptr(policy.WeeksToRetain()),
		MonthsToRetain:         ptr(policy.MonthsToRetain()),
		YearsToRetain:          ptr(policy.YearsToRetain()),
	}
	if anchor, ok := policy.AnchorDate(); ok {
		config.AnchorDate = ptr(anchor.String())
	}
	return config
}

// Marshal encodes the policy configuration as YAML.
func (p PolicyConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}

func ptr[T any](v T) *T {
	return &v
}
