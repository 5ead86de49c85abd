// Package logger builds the process-wide structured logger.
// Every entry is a single JSON object per line with ts, level and msg keys.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"docsign/internal/config"
)

// New returns a JSON logger writing to stdout.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithWriter(os.Stdout, cfg)
}

// NewWithWriter returns a JSON logger writing to w.
func NewWithWriter(w io.Writer, cfg config.LogConfig) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&locationFormatter{
		loc: Location(cfg.Timezone),
		inner: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
			},
		},
	})
	return l
}

// Location resolves a timezone name, falling back to UTC.
func Location(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Discard returns a logger that drops everything; handy in tests.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type locationFormatter struct {
	loc   *time.Location
	inner logrus.Formatter
}

func (f *locationFormatter) Format(e *logrus.Entry) ([]byte, error) {
	e.Time = e.Time.In(f.loc)
	return f.inner.Format(e)
}
