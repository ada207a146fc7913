// Package logger holds the process-wide charmbracelet logger. Records go to
// a rotated file under the config directory, and also to stderr with --debug.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/smallwins/internal/constants"
)

// Logger is nil until Init; the helpers drop records in that case.
var Logger *log.Logger

var discard = log.New(io.Discard)

type Config struct {
	Debug     bool
	ConfigDir string
}

// FilePath is the active log file for a config directory.
func FilePath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

func Init(cfg Config) error {
	path := FilePath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5,
		MaxBackups: 2,
		MaxAge:     30,
		Compress:   true,
	}
	level := log.WarnLevel
	if cfg.Debug {
		out = io.MultiWriter(os.Stderr, out)
		level = log.DebugLevel
	}

	Logger = NewWithWriter(out, level, cfg.Debug)
	return nil
}

// NewWithWriter builds a timestamped, prefixed logger writing to w.
func NewWithWriter(w io.Writer, level log.Level, reportCaller bool) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          constants.AppName,
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    reportCaller,
	})
}

func current() *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger
}

func Debug(msg string, keyvals ...any) { current().Helper(); current().Debug(msg, keyvals...) }
func Info(msg string, keyvals ...any)  { current().Helper(); current().Info(msg, keyvals...) }
func Warn(msg string, keyvals ...any)  { current().Helper(); current().Warn(msg, keyvals...) }
func Error(msg string, keyvals ...any) { current().Helper(); current().Error(msg, keyvals...) }
