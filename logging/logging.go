// Package logging builds the zap logger. The terminal owns stdout and stderr,
// so output only ever goes to a rotating file, and only when enabled
package logging

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Defaults for the debug log file
const (
	DefaultDir        = "logs"
	DefaultFileName   = "motion-test.log"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 7
)

// Options configures the file logger
type Options struct {
	Enabled    bool
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Level      zapcore.Level
}

// DefaultOptions returns disabled logging with the stock rotation policy
func DefaultOptions() Options {
	return Options{
		Dir:        DefaultDir,
		FileName:   DefaultFileName,
		MaxSizeMB:  DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAgeDays: DefaultMaxAgeDays,
		Compress:   true,
		Level:      zapcore.DebugLevel,
	}
}

// Path is the active log file location
func (o Options) Path() string {
	return filepath.Join(o.Dir, o.FileName)
}

// New returns a no-op logger when disabled, otherwise a JSON logger writing
// through lumberjack. The returned closer flushes and releases the file
func New(opts Options) (*zap.Logger, func() error, error) {
	if !opts.Enabled {
		return zap.NewNop(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.Path(),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	encoderConfig := zapcore.EncoderConfig{
		MessageKey:   "message",
		LevelKey:     "level",
		TimeKey:      "time",
		CallerKey:    "caller",
		NameKey:      "logger",
		EncodeLevel:  zapcore.CapitalLevelEncoder,
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
		EncodeName:   zapcore.FullNameEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		opts.Level,
	)
	logger := zap.New(core, zap.AddCaller())

	closer := func() error {
		_ = logger.Sync()
		return rotator.Close()
	}
	return logger, closer, nil
}
