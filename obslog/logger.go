// Package obslog is the component-scoped structured logging layer
// shared by every package in this module, grounded on
// bgp59-victoriametrics-importer's vmi/internal logger: a single root
// logrus.Logger configured once from a Config, with per-component
// entries handed out via NewCompLogger so log lines carry which piece
// of the runtime emitted them. The root-path-prefix caller rewriting
// and lumberjack file rotation from that teacher are dropped here —
// this module has no multi-importer deployment story to justify
// either, so RootLogger always writes to standard error.
package obslog

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// component field name, matching LOGGER_COMPONENT_FIELD_NAME in the
// teacher's logger.go.
const componentField = "comp"

// RootLogger is the single logrus instance every component logger is
// derived from.
var RootLogger = &logrus.Logger{
	Out:          os.Stderr,
	Formatter:    textFormatter(),
	Level:        logrus.InfoLevel,
	ReportCaller: false,
}

// Config mirrors the teacher's LoggerConfig, trimmed to the knobs this
// module's demo CLI and conformance tests actually use.
type Config struct {
	UseJSON bool   `yaml:"use_json"`
	Level   string `yaml:"level"`
}

// DefaultConfig returns the logger defaults: text format at info level.
func DefaultConfig() *Config {
	return &Config{UseJSON: false, Level: "info"}
}

func textFormatter() logrus.Formatter {
	return &logrus.TextFormatter{
		DisableColors:   false,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	}
}

func jsonFormatter() logrus.Formatter {
	return &logrus.JSONFormatter{TimestampFormat: "15:04:05.000"}
}

// Configure applies cfg to RootLogger. A nil cfg applies DefaultConfig.
func Configure(cfg *Config) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Level != "" {
		level, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("obslog: %w", err)
		}
		RootLogger.SetLevel(level)
	}
	if cfg.UseJSON {
		RootLogger.SetFormatter(jsonFormatter())
	} else {
		RootLogger.SetFormatter(textFormatter())
	}
	return nil
}

// NewCompLogger returns a logrus.Entry scoped to comp, the unit every
// package in this module uses to obtain its logger (e.g.
// obslog.NewCompLogger("sched")).
func NewCompLogger(comp string) *logrus.Entry {
	return RootLogger.WithField(componentField, comp)
}
