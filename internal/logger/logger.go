package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/focusblocks/internal/constants"
)

var (
	// Logger is nil until Init; the helpers below are no-ops until then.
	Logger *log.Logger

	// SessionID identifies this process run in every log line.
	SessionID = uuid.New().String()

	file *lumberjack.Logger
)

type Config struct {
	// Debug lowers the level to debug and mirrors output to Stderr.
	Debug bool
	// ConfigDir holds the logs/ directory.
	ConfigDir string
	Stderr    io.Writer
}

// Init opens <ConfigDir>/logs/focusblocks.log, rotated by size, and installs
// the global logger.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if file != nil {
		_ = file.Close()
	}
	file = &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.AppName+".log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}

	// The TUI owns the terminal, so stderr only gets output when debugging.
	var w io.Writer = file
	level := log.WarnLevel
	if cfg.Debug {
		level = log.DebugLevel
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		w = io.MultiWriter(stderr, file)
	}

	Logger = log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          constants.AppName,
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	}).With("session", SessionID)
	return nil
}

// Path is the active log file, or "" before Init.
func Path() string {
	if file == nil {
		return ""
	}
	return file.Filename
}

// Close flushes and releases the log file.
func Close() error {
	Logger = nil
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
