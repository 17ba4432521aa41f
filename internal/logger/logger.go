// Package logger holds the process-wide structured logger. Records go to a
// rotating file under the config directory; debug runs mirror them to stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/arise/internal/constants"
)

var (
	// Logger is nil until Init succeeds.
	Logger *log.Logger

	fileWriter io.Writer
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level: debug, info, warn or error.
	Level string
}

// Path returns the log file location for a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func Init(cfg Config) error {
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
	}
	if cfg.Level != "" {
		parsed, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	fileWriter = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// FileOnly stops mirroring to stderr. Full-screen sessions call it so log
// lines do not draw over the terminal UI.
func FileOnly() {
	if Logger != nil && fileWriter != nil {
		Logger.SetOutput(fileWriter)
	}
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Get returns the global logger, or a discarding logger before Init.
func Get() *log.Logger {
	if Logger == nil {
		return Discard()
	}
	return Logger
}

func Debug(msg string, keyvals ...interface{}) { Get().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...interface{})  { Get().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...interface{})  { Get().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...interface{}) { Get().Error(msg, keyvals...) }
