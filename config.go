package feedq

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"

	"github.com/schedsim/feedq/model"
	"github.com/schedsim/feedq/policy"
	"github.com/schedsim/feedq/service/meta"
	"github.com/schedsim/feedq/service/scheduler"
)

// Config is a serialisable representation of the engine configuration. It can
// be populated from YAML or JSON assets; the zero value inherits every
// package default.
type Config struct {
	Scheduler SchedulerConfig `json:"scheduler" yaml:"scheduler"`

	// Policy optionally overrides the queue-management constants
	Policy *policy.Config `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// SchedulerConfig paces the dispatch loop. Durations travel as
// time.ParseDuration strings, e.g. "10ms".
type SchedulerConfig struct {
	TickInterval string `json:"tickInterval,omitempty" yaml:"tickInterval,omitempty"`
	MaxIdleTicks int    `json:"maxIdleTicks,omitempty" yaml:"maxIdleTicks,omitempty"`
}

// DefaultConfig returns a Config populated with the same default values the
// constructors apply when fields are left unset. Callers may modify the
// returned struct before passing it to New via WithConfig.
func DefaultConfig() *Config {
	base := scheduler.DefaultConfig()
	return &Config{
		Scheduler: SchedulerConfig{
			TickInterval: base.TickInterval.String(),
			MaxIdleTicks: base.MaxIdleTicks,
		},
		Policy: policy.ToConfig(policy.DefaultPolicy()),
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Scheduler.MaxIdleTicks < 0 {
		return fmt.Errorf("scheduler.maxIdleTicks cannot be negative: %d", c.Scheduler.MaxIdleTicks)
	}
	if _, err := c.schedulerConfig(); err != nil {
		return err
	}
	_, err := c.schedulerPolicy()
	return err
}

// schedulerConfig converts the serialisable scheduler section into the
// scheduler package config.
func (c *Config) schedulerConfig() (scheduler.Config, error) {
	result := scheduler.DefaultConfig()
	if c == nil {
		return result, nil
	}
	if c.Scheduler.TickInterval != "" {
		interval, err := model.ParseDuration("scheduler.tickInterval", c.Scheduler.TickInterval)
		if err != nil {
			return result, err
		}
		result.TickInterval = interval
	}
	if c.Scheduler.MaxIdleTicks != 0 {
		result.MaxIdleTicks = c.Scheduler.MaxIdleTicks
	}
	return result, nil
}

// schedulerPolicy converts the embedded policy section, falling back to the
// package defaults for unset fields.
func (c *Config) schedulerPolicy() (*policy.Policy, error) {
	if c == nil {
		return policy.DefaultPolicy(), nil
	}
	return policy.FromConfig(c.Policy)
}

// LoadConfig reads a configuration asset from the given afs URL, expanding
// ${env.KEY} references. Fields absent from the asset keep their defaults.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	config := DefaultConfig()
	if err := meta.New(afs.New(), "", options...).Load(ctx, URL, config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", URL, err)
	}
	return config, nil
}
