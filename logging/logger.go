package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable before BootstrapLogger runs so tests and packages never see a nil logger.
var Log = logrus.New()

// BootstrapLogger configures the process logger. format is "json" or "text";
// an unknown level falls back to debug.
func BootstrapLogger(level, format string) {
	Log = &logrus.Logger{
		Out:   os.Stdout,
		Hooks: make(logrus.LevelHooks),
		Formatter: &logrus.TextFormatter{
			DisableColors: false,
			FullTimestamp: true,
		},
		Level:    logrus.DebugLevel,
		ExitFunc: os.Exit,
	}
	if format == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	}
	if parsed, err := logrus.ParseLevel(level); err == nil {
		Log.SetLevel(parsed)
	}
	Log.SetReportCaller(true)
}
