package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds configuration for logger setup.
type Config struct {
	Level      string `json:"level,omitempty" yaml:"level,omitempty"`
	Format     string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
	File       string `json:"file,omitempty" yaml:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty" yaml:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty" yaml:"max_backups,omitempty"`
}

// NewDefaultConfig returns the default logger configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 3,
	}
}

// New builds a zerolog.Logger from the given configuration. Console output
// goes to stderr; when File is set, a rotating file writer is added as well.
func New(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{consoleWriter(cfg.Format, os.Stderr, false)}

	if cfg.File != "" {
		fw, err := fileWriter(cfg)
		if err != nil {
			return zerolog.Logger{}, err
		}
		writers = append(writers, fw)
	}

	var out io.Writer
	if len(writers) == 1 {
		out = writers[0]
	} else {
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func consoleWriter(format string, out io.Writer, noColor bool) io.Writer {
	if format == "json" {
		return out
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    noColor,
		TimeFormat: "2006-01-02 15:04:05",
	}
}

func fileWriter(cfg Config) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, err
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}

	// File output stays machine-readable unless console format is forced.
	if cfg.Format == "console" {
		return consoleWriter(cfg.Format, rotated, true), nil
	}
	return rotated, nil
}
