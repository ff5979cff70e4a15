package logging

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	EnvLogLevel   = "CLOAKPROJ_LOG_LEVEL"
	EnvLogFormat  = "CLOAKPROJ_LOG_FORMAT"
	EnvLogNoColor = "CLOAKPROJ_LOG_NOCOLOR"
)

type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// Config describes how diagnostic records are rendered. Start from DefaultConfig.
type Config struct {
	Level   logrus.Level
	Format  Format
	NoColor bool
}

func DefaultConfig() Config {
	return Config{Level: logrus.InfoLevel, Format: TextFormat}
}

// New builds a logger writing to out. Environment overrides take precedence over the given configuration.
func New(cfg Config, out io.Writer) *logrus.Logger {
	ApplyEnvOverrides(&cfg)
	logger := &logrus.Logger{
		Out:   out,
		Hooks: make(logrus.LevelHooks),
		Level: cfg.Level,
	}
	switch cfg.Format {
	case JSONFormat:
		logger.Formatter = &logrus.JSONFormatter{}
	default:
		logger.Formatter = &logrus.TextFormatter{
			DisableColors:    cfg.NoColor,
			DisableTimestamp: true,
		}
	}
	return logger
}

func ApplyEnvOverrides(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if format, ok := ParseFormat(os.Getenv(EnvLogFormat)); ok {
		cfg.Format = format
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel understands logrus level names plus a few common aliases.
func ParseLevel(raw string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return logrus.InfoLevel, false
	case "trace", "diagnostics":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "info":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "fatal":
		return logrus.FatalLevel, true
	case "disabled", "off", "none", "panic":
		return logrus.PanicLevel, true
	default:
		return logrus.InfoLevel, false
	}
}

func ParseFormat(raw string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case TextFormat:
		return TextFormat, true
	case JSONFormat:
		return JSONFormat, true
	default:
		return "", false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
