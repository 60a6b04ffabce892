package logging

import (
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

// EnvLog enables debug logging when set to "debug".
const EnvLog = "STATEHUB_LOG"

// Options configure the logger.
type Options struct {
	// Verbose enables V(1) messages.
	Verbose bool

	// Out defaults to os.Stderr.
	Out io.Writer
}

// New returns a console logger writing to opts.Out.
func New(opts Options) logr.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.InfoLevel
	if opts.Verbose || DebugFromEnv(os.Getenv) {
		level = zapcore.DebugLevel
	}

	return zap.New(
		zap.UseDevMode(false),
		zap.WriteTo(out),
		zap.Level(level),
		zap.ConsoleEncoder(func(c *zapcore.EncoderConfig) {
			c.TimeKey = ""
			c.CallerKey = ""
			c.StacktraceKey = ""
		}),
	)
}

// DebugFromEnv reports whether EnvLog asks for debug output.
func DebugFromEnv(getenv func(string) string) bool {
	return strings.EqualFold(strings.TrimSpace(getenv(EnvLog)), "debug")
}
