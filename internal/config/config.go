// Package config layers the run settings: built-in defaults, then the YAML
// file, then .env and CASTAWAY_* variables, then command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/castaway/internal/game"
	"github.com/appengine-ltd/castaway/internal/observability"
)

const envPrefix = "CASTAWAY_"

type Config struct {
	Run      game.RunConfig
	SavePath string
	LogLevel slog.Level
	Debug    bool
	Tracing  observability.Config
}

// fileConfig is the on-disk shape. Durations are written as "15m".
type fileConfig struct {
	Seed          int64                `yaml:"seed,omitempty"`
	Player        int                  `yaml:"player"`
	Tribes        int                  `yaml:"tribes"`
	MergeAt       int                  `yaml:"merge_at"`
	FinalSize     int                  `yaml:"final_size"`
	DayLength     string               `yaml:"day_length"`
	MidPhaseDelay string               `yaml:"mid_phase_delay"`
	AutoAdvance   bool                 `yaml:"auto_advance"`
	SavePath      string               `yaml:"save_db,omitempty"`
	LogLevel      string               `yaml:"log_level,omitempty"`
	Tracing       observability.Config `yaml:"tracing"`
}

func Default() Config {
	return Config{
		Run:      game.DefaultRunConfig(),
		SavePath: DefaultSavePath(),
		LogLevel: slog.LevelInfo,
		Tracing:  observability.DefaultConfig(),
	}
}

type LoadOptions struct {
	// Path of the YAML file. Empty means the default location; a missing
	// file at the default location is not an error.
	Path    string
	EnvFile string
}

// Load builds the config from defaults, file and environment. Flags are
// applied afterwards by the caller through BindFlags.
func Load(opts LoadOptions) (Config, error) {
	cfg := Default()

	path, explicit := opts.Path, opts.Path != ""
	if !explicit {
		if p, err := Path(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = EnvFileName
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fc := c.toFile()
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return c.fromFile(fc)
}

func (c Config) toFile() fileConfig {
	return fileConfig{
		Seed:          c.Run.Seed,
		Player:        c.Run.PlayerID,
		Tribes:        c.Run.TribeCount,
		MergeAt:       c.Run.MergeAt,
		FinalSize:     c.Run.FinalSize,
		DayLength:     c.Run.DayLength.String(),
		MidPhaseDelay: c.Run.MidPhaseDelay.String(),
		AutoAdvance:   c.Run.AutoAdvance,
		SavePath:      c.SavePath,
		LogLevel:      c.LogLevel.String(),
		Tracing:       c.Tracing,
	}
}

func (c *Config) fromFile(fc fileConfig) error {
	day, err := time.ParseDuration(fc.DayLength)
	if err != nil {
		return fmt.Errorf("day_length: %w", err)
	}
	mid, err := time.ParseDuration(fc.MidPhaseDelay)
	if err != nil {
		return fmt.Errorf("mid_phase_delay: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(fc.LogLevel)); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	c.Run.Seed = fc.Seed
	c.Run.PlayerID = fc.Player
	c.Run.TribeCount = fc.Tribes
	c.Run.MergeAt = fc.MergeAt
	c.Run.FinalSize = fc.FinalSize
	c.Run.DayLength = day
	c.Run.MidPhaseDelay = mid
	c.Run.AutoAdvance = fc.AutoAdvance
	c.SavePath = fc.SavePath
	c.LogLevel = level
	c.Tracing = fc.Tracing
	return nil
}

// ApplyEnv overlays CASTAWAY_* variables and the OTEL_* tracing variables.
func (c *Config) ApplyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"PLAYER", &c.Run.PlayerID},
		{"TRIBES", &c.Run.TribeCount},
		{"MERGE_AT", &c.Run.MergeAt},
		{"FINAL_SIZE", &c.Run.FinalSize},
	}
	for _, v := range ints {
		raw, ok := lookupEnv(v.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, v.key, err)
		}
		*v.dst = n
	}
	if raw, ok := lookupEnv("SEED"); ok {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		c.Run.Seed = n
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"DAY_LENGTH", &c.Run.DayLength},
		{"MID_PHASE_DELAY", &c.Run.MidPhaseDelay},
	}
	for _, v := range durations {
		raw, ok := lookupEnv(v.key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, v.key, err)
		}
		*v.dst = d
	}

	if raw, ok := lookupEnv("AUTO_ADVANCE"); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%sAUTO_ADVANCE: %w", envPrefix, err)
		}
		c.Run.AutoAdvance = b
	}
	if raw, ok := lookupEnv("SAVE_DB"); ok {
		c.SavePath = raw
	}
	if raw, ok := lookupEnv("LOG_LEVEL"); ok {
		if err := c.LogLevel.UnmarshalText([]byte(raw)); err != nil {
			return fmt.Errorf("%sLOG_LEVEL: %w", envPrefix, err)
		}
	}
	if raw, ok := lookupEnv("DEBUG"); ok {
		c.Debug = raw == "1" || strings.EqualFold(raw, "true")
	}

	c.Tracing = observability.ApplyEnv(c.Tracing)
	return nil
}

func lookupEnv(key string) (string, bool) {
	raw, ok := os.LookupEnv(envPrefix + key)
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

// BindFlags registers flags that override the loaded values once parsed.
func (c *Config) BindFlags(flags *flag.FlagSet) {
	flags.Int64Var(&c.Run.Seed, "seed", c.Run.Seed, "season seed (0 picks one from the clock)")
	flags.IntVar(&c.Run.PlayerID, "player", c.Run.PlayerID, "cast id of the player's survivor")
	flags.IntVar(&c.Run.TribeCount, "tribes", c.Run.TribeCount, "number of starting tribes")
	flags.IntVar(&c.Run.MergeAt, "merge-at", c.Run.MergeAt, "merge when this many survivors remain")
	flags.IntVar(&c.Run.FinalSize, "final", c.Run.FinalSize, "size of the final tribal council")
	flags.DurationVar(&c.Run.DayLength, "day-length", c.Run.DayLength, "real time for a full day")
	flags.DurationVar(&c.Run.MidPhaseDelay, "invite-delay", c.Run.MidPhaseDelay, "delay before the mid-phase invitation")
	flags.BoolVar(&c.Run.AutoAdvance, "auto-advance", c.Run.AutoAdvance, "advance to the next day when the clock runs out")
	flags.StringVar(&c.SavePath, "saves", c.SavePath, "path of the save database")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "write debug logs to debug.log")
	flags.BoolVar(&c.Tracing.Enabled, "trace", c.Tracing.Enabled, "export OpenTelemetry traces")
}

func (c Config) Validate() error {
	if err := c.Run.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.SavePath) == "" {
		return errors.New("save path must not be empty")
	}
	return nil
}

// WriteFile stores c as YAML at path, replacing the old file atomically.
func WriteFile(path string, c Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c.toFile())
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "castaway-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}
	cleanup = false
	return nil
}
