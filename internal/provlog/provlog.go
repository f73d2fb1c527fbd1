// Package provlog wires github.com/dlr-sp/provtool-go's per-tool,
// append-only log files through go.uber.org/zap, mirroring the original
// Python tool-set's `logging.FileHandler('<Tool>.log')` setup (spec.md §6.4)
// while producing the asctime/levelname/message layout every original
// logger used. zap is the donor's own logging stack (pkg/server,
// pkg/execution and friends all take *zap.Logger via constructor
// injection); nothing here reaches for stdlib `log`.
package provlog

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the per-tool log file and minimum level, matching
// spec.md's AMBIENT STACK note: DEBUG for directorywrapper/standalone,
// WARNING for the validator, INFO elsewhere.
type Config struct {
	// FilePath is the append-only log file, e.g. "DirectoryWrapper.log",
	// "Validator.log", "visualisation.log", "provtool.log".
	FilePath string
	// Level is the minimum zapcore.Level this logger emits.
	Level zapcore.Level
	// Console additionally attaches a stderr core, mirroring file2quilt's
	// extra StreamHandler (spec.md SUPPLEMENTED FEATURES).
	Console bool
}

// pyStyleEncoder renders each entry as "asctime - levelname - name -
// message" (zap's console field order), followed by any structured fields
// as a JSON object. The level precedes the logger name, the reverse of the
// Python loggers' "%(asctime)s - %(name)s - %(levelname)s" order.
func pyStyleEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "asctime",
		NameKey:        "name",
		LevelKey:       "levelname",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		ConsoleSeparator: " - ",
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// New opens cfg.FilePath (creating it if absent, appending otherwise) and
// returns a *zap.Logger named after the tool, released implicitly at
// process exit (spec.md §5: "Logging is a scoped-acquisition resource:
// handlers are opened once per process; files are appended to; release is
// implicit at process exit").
func New(name string, cfg Config) (*zap.Logger, error) {
	f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	fileCore := zapcore.NewCore(pyStyleEncoder(), zapcore.AddSync(f), cfg.Level)

	core := zapcore.Core(fileCore)
	if cfg.Console {
		consoleCore := zapcore.NewCore(pyStyleEncoder(), zapcore.AddSync(os.Stderr), zapcore.InfoLevel)
		core = zapcore.NewTee(fileCore, consoleCore)
	}

	logger := zap.New(core).Named(name).WithOptions(zap.AddCaller())
	return logger, nil
}

// Default log file names per spec.md §6.4.
const (
	DirectoryWrapperLog = "DirectoryWrapper.log"
	StandaloneLog       = "provtool.log"
	SignLog             = "provtool.log"
	ValidatorLog        = "Validator.log"
	SearchLog           = "provtool.log"
	VisualisationLog    = "visualisation.log"
)

// nowUTC returns the current wall-clock time in UTC.
func nowUTC() time.Time { return time.Now().UTC() }
