// Package logger holds the default logger used by arenas that were not
// given one explicitly.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// L is the package-wide default logger. Arenas tag their entries with the
// "arena" prefix so they are easy to pick out of a shared stream.
var L = &logrus.Logger{
	Out:   os.Stderr,
	Level: logrus.InfoLevel,
	Hooks: make(logrus.LevelHooks),
	Formatter: &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	},
}

// Discard returns a logger that drops everything. Handy in tests and
// benchmarks where log output is noise.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = discard{}
	l.Level = logrus.PanicLevel
	return l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
