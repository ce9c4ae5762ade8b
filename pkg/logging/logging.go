package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// SetLevel sets the level of the internal logrus instance
func SetLevel(level logrus.Level) {
	logger.SetLevel(level)
}

// SetOutput redirects the internal logrus instance
func SetOutput(out io.Writer) {
	logger.SetOutput(out)
}

// UseJSON switches the internal logrus instance to json output
func UseJSON() {
	logger.SetFormatter(&logrus.JSONFormatter{})
}

// AddHook adds a hook to the internal logrus instance
func AddHook(hook logrus.Hook) {
	logger.Hooks.Add(hook)
}

// WithField creates a logrus entry with a field
func WithField(key string, value interface{}) *logrus.Entry {
	return logger.WithField(key, value)
}

// WithFields creates a logrus entry with fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// Info logs
func Info(args ...interface{}) {
	logger.Info(args...)
}

// Debug logs
func Debug(args ...interface{}) {
	logger.Debug(args...)
}

// Warn logs
func Warn(args ...interface{}) {
	logger.Warn(args...)
}

// Error logs
func Error(args ...interface{}) {
	logger.Error(args...)
}

// Fatal logs and exits
func Fatal(args ...interface{}) {
	logger.Fatal(args...)
}
