package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the shared log instance. Init must be called before serving;
// the package-level helpers fall back to the logrus default otherwise.
var (
	Logger *logrus.Logger
	mu     sync.Mutex
)

// Config controls level, formatting and optional file output.
type Config struct {
	Level      string // debug, info, warn, error
	OutputFile string // empty: console only
	MaxSize    int    // MB per file before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// Init sets up the shared logger. File output rotates via lumberjack.
func Init(config Config) error {
	mu.Lock()
	defer mu.Unlock()

	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
	}
	l.SetFormatter(formatter)

	writers := []io.Writer{os.Stdout}
	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0o755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	out := io.MultiWriter(writers...)
	l.SetOutput(out)

	// Keep the global logrus logger aligned so WithField entries created
	// elsewhere land in the same file.
	logrus.SetOutput(out)
	logrus.SetLevel(level)
	logrus.SetFormatter(formatter)

	Logger = l
	return nil
}

// InitDefault configures console-only info logging.
func InitDefault() error {
	return Init(Config{Level: "info"})
}

func Debugf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Debugf(format, args...)
		return
	}
	logrus.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Infof(format, args...)
		return
	}
	logrus.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Warnf(format, args...)
		return
	}
	logrus.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	if Logger != nil {
		Logger.Errorf(format, args...)
		return
	}
	logrus.Errorf(format, args...)
}

// WithField returns an entry carrying a contextual field.
func WithField(key string, value interface{}) *logrus.Entry {
	if Logger != nil {
		return Logger.WithField(key, value)
	}
	return logrus.WithField(key, value)
}
