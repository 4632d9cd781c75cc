// Package logger initializes the global zerolog logger: a console
// writer for the operator plus an optional rolling file under the
// storage directory.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileName    = "admin.log"
	fileMaxSizeMB  = 10
	fileMaxAgeDays = 14
	fileMaxBackups = 3

	dirPerm = 0o750
)

// Init configures the global logger. An empty logDir disables the
// rolling file.
func Init(level, logDir string) error {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "loglevel %s is not supported", level)
	}

	zerolog.SetGlobalLevel(logLevel)

	writers := []io.Writer{
		zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen},
	}

	if logDir != "" {
		if err = os.MkdirAll(logDir, dirPerm); err != nil {
			return errors.Wrap(err, "can't create log directory")
		}

		writers = append(writers, &lumberjack.Logger{
			Filename:   filepath.Join(logDir, logFileName),
			MaxSize:    fileMaxSizeMB,
			MaxAge:     fileMaxAgeDays,
			MaxBackups: fileMaxBackups,
		})
	}

	mw := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(mw).With().Timestamp().Logger()

	return nil
}
