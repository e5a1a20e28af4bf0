package cli

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/emberflow/ember/internal/config"
	"github.com/emberflow/ember/internal/constants"
	"github.com/emberflow/ember/internal/logging"
)

// logFileWriter holds the log file writer for cleanup on shutdown.
var logFileWriter io.WriteCloser //nolint:gochecknoglobals // Needed for cleanup

// zerologGlobalMu protects writes to the zerolog global logger.
var zerologGlobalMu sync.Mutex //nolint:gochecknoglobals // Protects zerolog global

// InitLogger creates the CLI logger from flags and config.
//
// Levels: verbose wins with debug, quiet narrows to warn, the config level
// applies otherwise. Console output goes to stderr as pretty text on a TTY
// and JSON elsewhere. When file logging is enabled, entries also go to
// <data dir>/logs/ember.log with rotation and credential redaction.
func InitLogger(flags *GlobalFlags, cfg *config.Config) zerolog.Logger {
	writer := selectConsole()

	if cfg.Log.File {
		if fw, err := createLogFileWriter(cfg); err == nil {
			logFileWriter = fw
			writer = zerolog.MultiLevelWriter(writer, fw)
		}
	}

	logger := zerolog.New(writer).
		Level(selectLevel(flags, cfg)).
		Hook(logging.RedactHook{}).
		With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// InitLoggerWithWriter builds a logger against a custom writer, for tests.
func InitLoggerWithWriter(flags *GlobalFlags, cfg *config.Config, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).
		Level(selectLevel(flags, cfg)).
		Hook(logging.RedactHook{}).
		With().Timestamp().Logger()
	setGlobalLogger(logger)
	return logger
}

// CloseLogFile closes the log file writer if one was opened.
func CloseLogFile() {
	if logFileWriter != nil {
		_ = logFileWriter.Close()
		logFileWriter = nil
	}
}

// setGlobalLogger points the zerolog package-level logger at the CLI logger
// so stray log.Info() calls share formatting.
func setGlobalLogger(logger zerolog.Logger) {
	zerologGlobalMu.Lock()
	defer zerologGlobalMu.Unlock()
	log.Logger = logger
}

// selectLevel resolves the effective log level.
func selectLevel(flags *GlobalFlags, cfg *config.Config) zerolog.Level {
	switch {
	case flags.Verbose:
		return zerolog.DebugLevel
	case flags.Quiet:
		return zerolog.WarnLevel
	}
	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		return level
	}
	return zerolog.InfoLevel
}

// selectConsole picks pretty output on a TTY, JSON elsewhere.
func selectConsole() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

// filteringWriteCloser pairs redaction with the underlying closer.
type filteringWriteCloser struct {
	filter *logging.FilteringWriter
	closer io.Closer
}

func (f *filteringWriteCloser) Write(p []byte) (int, error) { return f.filter.Write(p) }
func (f *filteringWriteCloser) Close() error                { return f.closer.Close() }

// createLogFileWriter opens the rotating, redacting log file under the data
// directory.
func createLogFileWriter(cfg *config.Config) (io.WriteCloser, error) {
	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return nil, err
	}
	logDir := filepath.Join(dataDir, constants.LogsDir)
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "ember.log"),
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   true,
	}
	return &filteringWriteCloser{
		filter: logging.NewFilteringWriter(rotator),
		closer: rotator,
	}, nil
}
