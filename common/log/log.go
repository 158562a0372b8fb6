package log

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// logger is usable before InitLog so engine packages and tests can log without setup.
var logger = log.NewWithOptions(os.Stdout, log.Options{
	ReportTimestamp: true,
	TimeFormat:      time.DateTime,
	Level:           log.InfoLevel,
})

func InitLog(appName string, logLevel string) {
	// stdout rather than stderr, so IDE consoles do not paint every line red
	logger = log.New(os.Stdout)
	logger.SetPrefix(appName)
	logger.SetReportTimestamp(true)
	logger.SetTimeFormat(time.DateTime)
	logger.SetReportCaller(true)
	logger.SetCallerOffset(1)
	logger.SetLevel(ParseLevel(logLevel))
}

// ParseLevel maps a config string onto a level, defaulting to info.
func ParseLevel(logLevel string) log.Level {
	switch strings.ToLower(logLevel) {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// SetLevel is used by the config watcher on hot reload.
func SetLevel(logLevel string) {
	logger.SetLevel(ParseLevel(logLevel))
}

func Fatal(format string, args ...any) {
	if len(args) == 0 {
		logger.Fatalf(format)
	} else {
		logger.Fatalf(format, args...)
	}
}

func Info(format string, args ...any) {
	if len(args) == 0 {
		logger.Infof(format)
	} else {
		logger.Infof(format, args...)
	}
}

func Warn(format string, args ...any) {
	if len(args) == 0 {
		logger.Warnf(format)
	} else {
		logger.Warnf(format, args...)
	}
}

func Error(format string, args ...any) {
	if len(args) == 0 {
		logger.Errorf(format)
	} else {
		logger.Errorf(format, args...)
	}
}

func Debug(format string, args ...any) {
	if len(args) == 0 {
		logger.Debugf(format)
	} else {
		logger.Debugf(format, args...)
	}
}
