package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/n2code/cloakproj/internal/logging"
	"github.com/spf13/afero"
)

const (
	DefaultFileName = "cloakproj.toml"
	EnvConfigPath   = "CLOAKPROJ_CONFIG"
	EnvEngine       = "CLOAKPROJ_ENGINE"
)

// Config holds the tool settings which are not part of the project descriptor itself.
type Config struct {
	Engine EngineConfig
	Log    logging.Config
}

type EngineConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
}

type fileConfig struct {
	Engine struct {
		Command string   `toml:"command"`
		Args    []string `toml:"args"`
		Timeout string   `toml:"timeout"`
	} `toml:"engine"`
	Log struct {
		Level   string `toml:"level"`
		Format  string `toml:"format"`
		NoColor bool   `toml:"no_color"`
	} `toml:"log"`
}

func Default() Config {
	return Config{
		Engine: EngineConfig{Command: "confuser-cli", Args: []string{"-n", "{project}"}},
		Log:    logging.DefaultConfig(),
	}
}

// Resolve picks the configuration file: the explicit path, else the environment, else the default file if present.
// An empty result means that defaults apply.
func Resolve(fs afero.Fs, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if fromEnv := strings.TrimSpace(os.Getenv(EnvConfigPath)); fromEnv != "" {
		return fromEnv
	}
	if _, err := fs.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	return ""
}

// Load reads the configuration file at path on top of the defaults. An empty path yields the defaults.
// The engine command can be overridden from the environment in any case.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadToml(fs, path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if engine := strings.TrimSpace(os.Getenv(EnvEngine)); engine != "" {
		cfg.Engine.Command = engine
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(fs afero.Fs, path string, cfg *Config) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	var raw fileConfig
	meta, err := toml.Decode(string(content), &raw)
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if meta.IsDefined("engine", "command") {
		cfg.Engine.Command = strings.TrimSpace(raw.Engine.Command)
	}
	if meta.IsDefined("engine", "args") {
		cfg.Engine.Args = raw.Engine.Args
	}
	if meta.IsDefined("engine", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Engine.Timeout))
		if err != nil {
			return fmt.Errorf("parse engine.timeout: %w", err)
		}
		cfg.Engine.Timeout = d
	}
	if meta.IsDefined("log", "level") {
		lvl, ok := logging.ParseLevel(raw.Log.Level)
		if !ok {
			return fmt.Errorf("unknown log.level %q", raw.Log.Level)
		}
		cfg.Log.Level = lvl
	}
	if meta.IsDefined("log", "format") {
		format, ok := logging.ParseFormat(raw.Log.Format)
		if !ok {
			return fmt.Errorf("unknown log.format %q", raw.Log.Format)
		}
		cfg.Log.Format = format
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s has unknown key %s", path, undecoded[0])
	}
	return nil
}

func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Engine.Command) == "" && len(cfg.Engine.Args) > 0 {
		return fmt.Errorf("engine config has args but no command")
	}
	if cfg.Engine.Timeout < 0 {
		return fmt.Errorf("engine timeout must not be negative")
	}
	return nil
}
