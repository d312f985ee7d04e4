package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	for _, k := range []string{"BRAINDUMP_DB", "BRAINDUMP_CONFIG", "BRAINDUMP_ADDR", "BRAINDUMP_JWT_SECRET",
		"BRAINDUMP_TOKEN_TTL", "BRAINDUMP_RATE_PER_HOUR", "BRAINDUMP_RATE_BURST", "BRAINDUMP_LOG_USE_CASES", "BRAINDUMP_CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	env, err := LoadEnv()

	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.braindump/braindump.db", env.DBPath)
	assert.Equal(t, "/home/tester/.braindump/config.yaml", env.ConfigPath)
	assert.Equal(t, "127.0.0.1:8787", env.Addr)
	assert.Equal(t, 30*24*time.Hour, env.TokenTTL)
	assert.Equal(t, 30, env.RatePerHour)
	assert.Equal(t, []string{"*"}, env.AllowedOrigin)
	assert.False(t, env.LogUseCases)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("BRAINDUMP_DB", "/tmp/x.db")
	t.Setenv("BRAINDUMP_TOKEN_TTL", "2h")
	t.Setenv("BRAINDUMP_RATE_PER_HOUR", "not-a-number")
	t.Setenv("BRAINDUMP_RATE_BURST", "9")
	t.Setenv("BRAINDUMP_LOG_USE_CASES", "true")
	t.Setenv("BRAINDUMP_CORS_ORIGINS", " https://a.example , ,https://b.example")

	env, err := LoadEnv()

	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", env.DBPath)
	assert.Equal(t, 2*time.Hour, env.TokenTTL)
	assert.Equal(t, 30, env.RatePerHour, "invalid numbers keep the default")
	assert.Equal(t, 9, env.RateBurst)
	assert.True(t, env.LogUseCases)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.AllowedOrigin)
}

func TestLoadFile_MissingIsEmpty(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoadFile_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, "weights:\n  urgncy:\n    high: 3\n")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "urgncy")
}

func TestApply_OverridesSelectedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, `
enum_policy: strict
weights:
  urgency:
    high: 50
  focus_bonus: 12
capacity:
  effort_minutes:
    small: 15
  budgets:
    today:
      low: 60
  task_caps:
    week: 5
`)
	base := scheduler.DefaultOptions()

	opts, _, err := Load(path, base)

	require.NoError(t, err)
	assert.Equal(t, scheduler.EnumStrict, opts.EnumPolicy)
	assert.Equal(t, 50.0, opts.Weights.UrgencyHigh)
	assert.Equal(t, 12.0, opts.Weights.FocusBonus)
	assert.Equal(t, base.Weights.UrgencyMedium, opts.Weights.UrgencyMedium)
	assert.Equal(t, 15, opts.Capacity.EstimateMinutes(domain.EffortSmall))
	assert.Equal(t, 60, opts.Capacity.MaxMinutes(domain.ModeToday, domain.TimeLow))
	assert.Equal(t, 180, opts.Capacity.MaxMinutes(domain.ModeToday, domain.TimeMedium))
	assert.Equal(t, 5, opts.Capacity.MaxTaskCount(domain.ModeWeek))

	assert.Equal(t, 25, base.Capacity.EstimateMinutes(domain.EffortSmall), "base is untouched")
	assert.Equal(t, 90, base.Capacity.MaxMinutes(domain.ModeToday, domain.TimeLow))
}

func TestApply_CollectsAllErrors(t *testing.T) {
	f := File{
		EnumPolicy: "loose",
		Weights:    WeightsFile{Urgency: map[string]float64{"urgent": 1}, Energy: map[string]float64{"match": -1}},
		Capacity: CapacityFile{
			EffortMinutes: map[string]int{"medium": 0},
			Budgets:       map[string]map[string]int{"month": {"low": 10}},
		},
	}
	base := scheduler.DefaultOptions()

	opts, err := f.Apply(base)

	require.Error(t, err)
	for _, want := range []string{"enum_policy", "urgent", "weights.energy.match", "effort_minutes.medium", "month"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.Equal(t, base.Weights, opts.Weights)
}

func TestFile_Rate(t *testing.T) {
	per, burst := File{}.Rate(30, 5)
	assert.Equal(t, 30, per)
	assert.Equal(t, 5, burst)

	p, b := 0, 2
	per, burst = File{RateLimit: RateLimitFile{PerHour: &p, Burst: &b}}.Rate(30, 5)
	assert.Equal(t, 0, per)
	assert.Equal(t, 2, burst)
}

func TestSave_RoundTripsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	base := scheduler.DefaultOptions()

	require.NoError(t, Save(path, FileFromOptions(base, 30, 5)))

	opts, f, err := Load(path, scheduler.Options{Capacity: scheduler.CapacityTable{}.Clone()})
	require.NoError(t, err)
	assert.Equal(t, base.Weights, opts.Weights)
	assert.Equal(t, base.Capacity, opts.Capacity)
	assert.Equal(t, base.EnumPolicy, opts.EnumPolicy)
	per, burst := f.Rate(0, 1)
	assert.Equal(t, 30, per)
	assert.Equal(t, 5, burst)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStore_SetIsolatesCaller(t *testing.T) {
	opts := scheduler.DefaultOptions()
	s := NewStore(opts)

	opts.Capacity.TaskCaps[domain.ModeToday] = 99
	assert.Equal(t, 3, s.Options().Capacity.MaxTaskCount(domain.ModeToday))

	opts.Weights.FocusBonus = 42
	s.Set(opts)
	assert.Equal(t, 42.0, s.Options().Weights.FocusBonus)
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	base := scheduler.DefaultOptions()
	w := &Watcher{Path: path, Base: base, Store: NewStore(base)}

	writeConfig(t, path, "weights:\n  focus_bonus: 9\n")
	assert.True(t, w.Reload())
	assert.Equal(t, 9.0, w.Store.Options().Weights.FocusBonus)

	writeConfig(t, path, "weights:\n  focus_bonus: -1\n")
	assert.False(t, w.Reload())
	assert.Equal(t, 9.0, w.Store.Options().Weights.FocusBonus, "invalid edits keep the last good options")

	require.NoError(t, os.Remove(path))
	assert.True(t, w.Reload())
	assert.Equal(t, base.Weights.FocusBonus, w.Store.Options().Weights.FocusBonus, "removal reverts to base")
}

func TestWatcher_PicksUpEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	base := scheduler.DefaultOptions()
	w := &Watcher{Path: path, Base: base, Store: NewStore(base), Debounce: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, Save(path, File{EnumPolicy: "strict"}))

	assert.Eventually(t, func() bool {
		return w.Store.Options().EnumPolicy == scheduler.EnumStrict
	}, 2*time.Second, 20*time.Millisecond)
}
