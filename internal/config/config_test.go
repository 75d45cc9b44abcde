package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/appengine-ltd/castaway/internal/game"
)

// isolate points the default config and .env locations at a temp dir.
func isolate(t *testing.T) (string, LoadOptions) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CASTAWAY_HOME", dir)
	return dir, LoadOptions{EnvFile: filepath.Join(dir, "missing.env")}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir, opts := isolate(t)
	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run != game.DefaultRunConfig() {
		t.Fatalf("expected default run config, got %+v", cfg.Run)
	}
	if cfg.SavePath != filepath.Join(dir, SaveFileName) {
		t.Fatalf("unexpected save path %q", cfg.SavePath)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir, opts := isolate(t)
	opts.Path = filepath.Join(dir, "custom.yaml")
	writeFile(t, opts.Path, "seed: 7\ntribes: 3\nday_length: 5m\nlog_level: debug\ntracing:\n  enabled: true\n  endpoint: http://otel:4318\n")

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.Seed != 7 || cfg.Run.TribeCount != 3 || cfg.Run.DayLength != 5*time.Minute {
		t.Fatalf("file values not applied: %+v", cfg.Run)
	}
	if cfg.Run.MergeAt != game.DefaultMergeAt {
		t.Fatalf("expected unspecified merge_at to keep default, got %d", cfg.Run.MergeAt)
	}
	if cfg.LogLevel.String() != "DEBUG" {
		t.Fatalf("expected debug level, got %s", cfg.LogLevel)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Endpoint != "http://otel:4318" {
		t.Fatalf("unexpected tracing config %+v", cfg.Tracing)
	}
}

func TestExplicitMissingFileFails(t *testing.T) {
	dir, opts := isolate(t)
	opts.Path = filepath.Join(dir, "nope.yaml")
	if _, err := Load(opts); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestBadYAMLDurationFails(t *testing.T) {
	dir, opts := isolate(t)
	opts.Path = filepath.Join(dir, "bad.yaml")
	writeFile(t, opts.Path, "day_length: forever\n")
	if _, err := Load(opts); err == nil {
		t.Fatalf("expected error for bad day_length")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir, opts := isolate(t)
	writeFile(t, filepath.Join(dir, FileName), "tribes: 3\nauto_advance: false\n")
	t.Setenv("CASTAWAY_TRIBES", "1")
	t.Setenv("CASTAWAY_AUTO_ADVANCE", "true")
	t.Setenv("CASTAWAY_MID_PHASE_DELAY", "30s")

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.TribeCount != 1 || !cfg.Run.AutoAdvance || cfg.Run.MidPhaseDelay != 30*time.Second {
		t.Fatalf("env overrides not applied: %+v", cfg.Run)
	}
}

func TestDotEnvFileIsRead(t *testing.T) {
	dir, opts := isolate(t)
	opts.EnvFile = filepath.Join(dir, ".env")
	writeFile(t, opts.EnvFile, "CASTAWAY_SEED=99\n")
	// Register a restore for the variable godotenv is about to set.
	t.Setenv("CASTAWAY_SEED", "")
	os.Unsetenv("CASTAWAY_SEED")

	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.Seed != 99 {
		t.Fatalf("expected seed from .env, got %d", cfg.Run.Seed)
	}
}

func TestBadEnvValueFails(t *testing.T) {
	_, opts := isolate(t)
	t.Setenv("CASTAWAY_TRIBES", "lots")
	if _, err := Load(opts); err == nil {
		t.Fatalf("expected error for non-numeric CASTAWAY_TRIBES")
	}
}

func TestFlagsOverrideLoadedValues(t *testing.T) {
	_, opts := isolate(t)
	cfg, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse([]string{"-tribes", "1", "-day-length", "2m", "-debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfg.Run.TribeCount != 1 || cfg.Run.DayLength != 2*time.Minute || !cfg.Debug {
		t.Fatalf("flags not applied: %+v debug=%v", cfg.Run, cfg.Debug)
	}
	if cfg.Run.MergeAt != game.DefaultMergeAt {
		t.Fatalf("unset flag changed merge-at to %d", cfg.Run.MergeAt)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir, opts := isolate(t)
	want := Default()
	want.Run.Seed = 1234
	want.Run.FinalSize = 4
	want.Run.DayLength = 90 * time.Second
	if err := WriteFile(filepath.Join(dir, FileName), want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(opts)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Run != want.Run {
		t.Fatalf("round trip mismatch: got %+v want %+v", got.Run, want.Run)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	cfg.SavePath = " "
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected empty save path to fail")
	}
	cfg = Default()
	cfg.Run.MergeAt = cfg.Run.FinalSize
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected merge size check to fail")
	}
}
