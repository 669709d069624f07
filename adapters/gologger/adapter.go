package gologger

import (
	"io"
	"os"
	"strings"

	glog "github.com/goliatone/go-logger/glog"
)

const RootName = "stargazer"

// New builds the root go-logger logger writing to w. Format "json" selects
// the JSON handler, "pretty" the color console, anything else logfmt text.
func New(w io.Writer, format string, level string) *glog.BaseLogger {
	if w == nil {
		w = os.Stderr
	}
	return glog.NewLogger(
		glog.WithName(RootName),
		glog.WithWriter(w),
		glog.WithLevel(normalizeLevel(level)),
		loggerType(format),
	)
}

func loggerType(format string) glog.Option {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case glog.LoggerTypeJSON:
		return glog.WithLoggerTypeJSON()
	case glog.LoggerTypePretty:
		return glog.WithLoggerTypePretty()
	default:
		return glog.WithLoggerTypeConsole()
	}
}

func normalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		return "warn"
	}
	return level
}

// Resolve uses deterministic precedence provider > logger > nop.
func Resolve(name string, provider glog.LoggerProvider, logger glog.Logger) (glog.LoggerProvider, glog.Logger) {
	return glog.Resolve(name, provider, logger)
}

// Component returns the logger for one stargazer component, named
// "stargazer.<component>".
func Component(provider glog.LoggerProvider, component string) glog.Logger {
	if provider == nil {
		return glog.Nop()
	}
	name := RootName
	if trimmed := strings.TrimSpace(component); trimmed != "" {
		name = RootName + "." + trimmed
	}
	logger := provider.GetLogger(name)
	if logger == nil {
		return glog.Nop()
	}
	return logger
}
