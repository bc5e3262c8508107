// Package logging builds the logrus logger used across the application and
// the Journal that records what a run reported.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures the logger.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// New creates a logger with a Journal hook attached.
func New(opt Options) (*logrus.Logger, *Journal) {
	logger := logrus.New()

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	logger.SetOutput(w)

	if strings.EqualFold(opt.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	level, err := logrus.ParseLevel(opt.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	journal := NewJournal()
	logger.AddHook(journal)
	return logger, journal
}
