package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// File is the YAML engine-tuning file. Every section is optional; absent
// keys keep the built-in value.
type File struct {
	EnumPolicy string        `yaml:"enum_policy,omitempty"`
	Weights    WeightsFile   `yaml:"weights,omitempty"`
	Capacity   CapacityFile  `yaml:"capacity,omitempty"`
	RateLimit  RateLimitFile `yaml:"rate_limit,omitempty"`
}

type WeightsFile struct {
	Urgency    map[string]float64 `yaml:"urgency,omitempty"`
	Deadline   map[string]float64 `yaml:"deadline,omitempty"`
	Effort     map[string]float64 `yaml:"effort,omitempty"`
	Energy     map[string]float64 `yaml:"energy,omitempty"`
	FocusBonus *float64           `yaml:"focus_bonus,omitempty"`
}

type CapacityFile struct {
	EffortMinutes   map[string]int            `yaml:"effort_minutes,omitempty"`
	FallbackMinutes *int                      `yaml:"fallback_minutes,omitempty"`
	Budgets         map[string]map[string]int `yaml:"budgets,omitempty"`
	TaskCaps        map[string]int            `yaml:"task_caps,omitempty"`
}

type RateLimitFile struct {
	PerHour *int `yaml:"per_hour,omitempty"`
	Burst   *int `yaml:"burst,omitempty"`
}

const (
	deadlineWithin1Day  = "within_1_day"
	deadlineWithin3Days = "within_3_days"
	deadlineWithin7Days = "within_7_days"
	deadlineLater       = "later"

	energyMatch    = "match"
	energyNeutral  = "neutral"
	energyMismatch = "mismatch"
)

// LoadFile reads and strictly decodes path. A missing file yields an empty
// File and no error.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return f, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// Apply overlays the file onto base and validates the result. base is not
// modified.
func (f File) Apply(base scheduler.Options) (scheduler.Options, error) {
	opts := base
	opts.Capacity = base.Capacity.Clone()
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if f.EnumPolicy != "" {
		p := scheduler.EnumPolicy(f.EnumPolicy)
		if !p.IsValid() {
			bad("enum_policy %q: want lenient or strict", f.EnumPolicy)
		} else {
			opts.EnumPolicy = p
		}
	}

	w := &opts.Weights
	setWeight := func(section, key string, v float64, dst *float64) {
		if v < 0 {
			bad("weights.%s.%s must not be negative", section, key)
			return
		}
		*dst = v
	}
	for k, v := range f.Weights.Urgency {
		switch u, _ := domain.ParseUrgency(k); u {
		case domain.UrgencyHigh:
			setWeight("urgency", k, v, &w.UrgencyHigh)
		case domain.UrgencyMedium:
			setWeight("urgency", k, v, &w.UrgencyMedium)
		case domain.UrgencyLow:
			setWeight("urgency", k, v, &w.UrgencyLow)
		default:
			bad("weights.urgency: unknown key %q", k)
		}
	}
	for k, v := range f.Weights.Deadline {
		switch k {
		case deadlineWithin1Day:
			setWeight("deadline", k, v, &w.DeadlineWithin1Day)
		case deadlineWithin3Days:
			setWeight("deadline", k, v, &w.DeadlineWithin3Days)
		case deadlineWithin7Days:
			setWeight("deadline", k, v, &w.DeadlineWithin7Days)
		case deadlineLater:
			setWeight("deadline", k, v, &w.DeadlineLater)
		default:
			bad("weights.deadline: unknown key %q", k)
		}
	}
	for k, v := range f.Weights.Effort {
		switch e, _ := domain.ParseEffort(k); e {
		case domain.EffortSmall:
			setWeight("effort", k, v, &w.EffortSmall)
		case domain.EffortMedium:
			setWeight("effort", k, v, &w.EffortMedium)
		case domain.EffortLarge:
			setWeight("effort", k, v, &w.EffortLarge)
		default:
			bad("weights.effort: unknown key %q", k)
		}
	}
	for k, v := range f.Weights.Energy {
		switch k {
		case energyMatch:
			setWeight("energy", k, v, &w.EnergyMatch)
		case energyNeutral:
			setWeight("energy", k, v, &w.EnergyNeutral)
		case energyMismatch:
			setWeight("energy", k, v, &w.EnergyMismatch)
		default:
			bad("weights.energy: unknown key %q", k)
		}
	}
	if fb := f.Weights.FocusBonus; fb != nil {
		if *fb < 0 {
			bad("weights.focus_bonus must not be negative")
		} else {
			w.FocusBonus = *fb
		}
	}

	c := &opts.Capacity
	for k, v := range f.Capacity.EffortMinutes {
		e, err := domain.ParseEffort(k)
		switch {
		case err != nil:
			bad("capacity.effort_minutes: %w", err)
		case v <= 0:
			bad("capacity.effort_minutes.%s must be positive", k)
		default:
			c.EffortMinutes[e] = v
		}
	}
	if f.Capacity.FallbackMinutes != nil {
		if *f.Capacity.FallbackMinutes <= 0 {
			bad("capacity.fallback_minutes must be positive")
		} else {
			c.FallbackMinutes = *f.Capacity.FallbackMinutes
		}
	}
	for mk, byTime := range f.Capacity.Budgets {
		mode, err := domain.ParsePlanMode(mk)
		if err != nil {
			bad("capacity.budgets: %w", err)
			continue
		}
		if c.Budgets[mode] == nil {
			c.Budgets[mode] = map[domain.TimeAvailable]int{}
		}
		for tk, v := range byTime {
			ta, err := domain.ParseTimeAvailable(tk)
			switch {
			case err != nil:
				bad("capacity.budgets.%s: %w", mk, err)
			case v < 0:
				bad("capacity.budgets.%s.%s must not be negative", mk, tk)
			default:
				c.Budgets[mode][ta] = v
			}
		}
	}
	for k, v := range f.Capacity.TaskCaps {
		mode, err := domain.ParsePlanMode(k)
		switch {
		case err != nil:
			bad("capacity.task_caps: %w", err)
		case v < 0:
			bad("capacity.task_caps.%s must not be negative", k)
		default:
			c.TaskCaps[mode] = v
		}
	}

	if err := errors.Join(errs...); err != nil {
		return base, fmt.Errorf("invalid config: %w", err)
	}
	return opts, nil
}

// Rate returns the file's rate limit over the given defaults.
func (f File) Rate(perHour, burst int) (int, int) {
	if f.RateLimit.PerHour != nil && *f.RateLimit.PerHour >= 0 {
		perHour = *f.RateLimit.PerHour
	}
	if f.RateLimit.Burst != nil && *f.RateLimit.Burst > 0 {
		burst = *f.RateLimit.Burst
	}
	return perHour, burst
}

// Load reads path and applies it over base.
func Load(path string, base scheduler.Options) (scheduler.Options, File, error) {
	f, err := LoadFile(path)
	if err != nil {
		return base, f, err
	}
	opts, err := f.Apply(base)
	return opts, f, err
}

// FileFromOptions renders a complete file for opts, used by `config init`.
func FileFromOptions(opts scheduler.Options, perHour, burst int) File {
	w := opts.Weights
	focus := w.FocusBonus
	fallback := opts.Capacity.FallbackMinutes
	f := File{
		EnumPolicy: string(opts.EnumPolicy),
		Weights: WeightsFile{
			Urgency: map[string]float64{
				string(domain.UrgencyHigh):   w.UrgencyHigh,
				string(domain.UrgencyMedium): w.UrgencyMedium,
				string(domain.UrgencyLow):    w.UrgencyLow,
			},
			Deadline: map[string]float64{
				deadlineWithin1Day:  w.DeadlineWithin1Day,
				deadlineWithin3Days: w.DeadlineWithin3Days,
				deadlineWithin7Days: w.DeadlineWithin7Days,
				deadlineLater:       w.DeadlineLater,
			},
			Effort: map[string]float64{
				string(domain.EffortSmall):  w.EffortSmall,
				string(domain.EffortMedium): w.EffortMedium,
				string(domain.EffortLarge):  w.EffortLarge,
			},
			Energy: map[string]float64{
				energyMatch:    w.EnergyMatch,
				energyNeutral:  w.EnergyNeutral,
				energyMismatch: w.EnergyMismatch,
			},
			FocusBonus: &focus,
		},
		Capacity: CapacityFile{
			EffortMinutes:   map[string]int{},
			FallbackMinutes: &fallback,
			Budgets:         map[string]map[string]int{},
			TaskCaps:        map[string]int{},
		},
		RateLimit: RateLimitFile{PerHour: &perHour, Burst: &burst},
	}
	for e, m := range opts.Capacity.EffortMinutes {
		f.Capacity.EffortMinutes[string(e)] = m
	}
	for mode, byTime := range opts.Capacity.Budgets {
		inner := map[string]int{}
		for ta, m := range byTime {
			inner[string(ta)] = m
		}
		f.Capacity.Budgets[string(mode)] = inner
	}
	for mode, n := range opts.Capacity.TaskCaps {
		f.Capacity.TaskCaps[string(mode)] = n
	}
	return f
}

// Save writes f to path atomically: temp file in the same directory, sync,
// re-read validation, then rename over the target.
func Save(path string, f File) error {
	content, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".braindump-tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if _, err := LoadFile(tmpName); err != nil {
		return fmt.Errorf("validating written config: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
