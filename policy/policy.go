// Package policy captures the queue-management constants of the multilevel
// feedback queue variant implemented by this module.  It is deliberately
// decoupled from the scheduler so that callers can build, persist or carry a
// policy via context without importing the scheduling machinery.

package policy

import (
	"context"
	"fmt"
	"time"
)

// Defaults applied when a field is left unset.
const (
	DefaultLevels          = 3
	DefaultBaseQuantum     = 10 * time.Millisecond
	DefaultQuantumStep     = 20 * time.Millisecond
	DefaultBlockingQuantum = 50 * time.Millisecond
)

// Policy represents the queue-management constants for a scheduler run.
//
//   - Levels is the count of CPU priority tiers; level 0 is the highest.
//   - BaseQuantum and QuantumStep define the per-level quantum as
//     base + level*step, so quanta grow as priority drops.
//   - BlockingQuantum bounds a single blocking-queue service call.
//
// A nil *Policy means "use the defaults" and is therefore the zero-cost
// default.
type Policy struct {
	Levels          int           // CPU priority tiers (default = 3)
	BaseQuantum     time.Duration // quantum at level 0
	QuantumStep     time.Duration // added once per level below 0
	BlockingQuantum time.Duration // blocking queue time budget
}

// DefaultPolicy returns the reference configuration.
func DefaultPolicy() *Policy {
	return &Policy{
		Levels:          DefaultLevels,
		BaseQuantum:     DefaultBaseQuantum,
		QuantumStep:     DefaultQuantumStep,
		BlockingQuantum: DefaultBlockingQuantum,
	}
}

// ---------------------------------------------------------------------------
// Config <-> Policy converters (Config is the serialisable form used in YAML
// assets; durations travel as strings such as "10ms").
// ---------------------------------------------------------------------------

// Config represents the declarative, serialisable part of a Policy.
type Config struct {
	Levels          int    `json:"levels,omitempty" yaml:"levels,omitempty"`
	BaseQuantum     string `json:"baseQuantum,omitempty" yaml:"baseQuantum,omitempty"`
	QuantumStep     string `json:"quantumStep,omitempty" yaml:"quantumStep,omitempty"`
	BlockingQuantum string `json:"blockingQuantum,omitempty" yaml:"blockingQuantum,omitempty"`
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Levels:          p.Levels,
		BaseQuantum:     p.BaseQuantum.String(),
		QuantumStep:     p.QuantumStep.String(),
		BlockingQuantum: p.BlockingQuantum.String(),
	}
}

// FromConfig converts a stored Config back to a runtime Policy. Unset fields
// keep their defaults.
func FromConfig(c *Config) (*Policy, error) {
	result := DefaultPolicy()
	if c == nil {
		return result, nil
	}
	if c.Levels != 0 {
		result.Levels = c.Levels
	}
	for field, setting := range map[string]struct {
		value  string
		target *time.Duration
	}{
		"baseQuantum":     {c.BaseQuantum, &result.BaseQuantum},
		"quantumStep":     {c.QuantumStep, &result.QuantumStep},
		"blockingQuantum": {c.BlockingQuantum, &result.BlockingQuantum},
	} {
		if setting.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(setting.value)
		if err != nil {
			return nil, fmt.Errorf("invalid %s duration %q: %w", field, setting.value, err)
		}
		*setting.target = parsed
	}
	return result, result.Validate()
}

// QuantumAt returns the time budget a single process may consume at the given
// CPU priority level before forced preemption.
func (p *Policy) QuantumAt(level int) time.Duration {
	p = p.orDefault()
	return p.BaseQuantum + time.Duration(level)*p.QuantumStep
}

// Demote returns the next lower priority level, clamped at the lowest tier.
func (p *Policy) Demote(level int) int {
	p = p.orDefault()
	next := level + 1
	if lowest := p.Levels - 1; next > lowest {
		return lowest
	}
	return next
}

// BoostLevel returns the level a process re-enters after completing a
// blocking phase. The boost target is a fixed constant of this MLFQ variant.
func (p *Policy) BoostLevel() int {
	return 0
}

// LevelCount returns the number of CPU priority tiers.
func (p *Policy) LevelCount() int {
	return p.orDefault().Levels
}

// Validate verifies the policy constants are usable.
func (p *Policy) Validate() error {
	if p == nil {
		return nil
	}
	if p.Levels < 1 {
		return fmt.Errorf("levels must be positive, got %d", p.Levels)
	}
	if p.BaseQuantum <= 0 {
		return fmt.Errorf("baseQuantum must be positive, got %s", p.BaseQuantum)
	}
	if p.QuantumStep < 0 {
		return fmt.Errorf("quantumStep cannot be negative, got %s", p.QuantumStep)
	}
	if p.BlockingQuantum <= 0 {
		return fmt.Errorf("blockingQuantum must be positive, got %s", p.BlockingQuantum)
	}
	return nil
}

func (p *Policy) orDefault() *Policy {
	if p == nil {
		return DefaultPolicy()
	}
	return p
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy embedded in ctx, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
