package stackdriver

import (
	"context"
	"fmt"

	stackdriverlogging "cloud.google.com/go/logging"
	"github.com/sirupsen/logrus"
)

// NewHook connects to stackdriver and returns a logrus hook writing to the given log id
func NewHook(projectID string, logID string) (Hook, error) {
	ctx := context.Background()
	client, err := stackdriverlogging.NewClient(ctx, fmt.Sprintf("projects/%s", projectID))
	if err != nil {
		return Hook{}, err
	}

	return Hook{client, client.Logger(logID), ctx}, nil
}

type Hook struct {
	client *stackdriverlogging.Client
	logger *stackdriverlogging.Logger
	ctx    context.Context
}

// Close flushes pending entries
func (h Hook) Close() error {
	return h.client.Close()
}

func (h Hook) Fire(entry *logrus.Entry) error {
	severity, ok := severityFromLevel(entry.Level)
	if !ok {
		return nil
	}

	switch entry.Level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return h.logger.LogSync(h.ctx, newStackdriverEntryFromLogrusEntry(entry, severity))
	default:
		h.logger.Log(newStackdriverEntryFromLogrusEntry(entry, severity))

		return nil
	}
}

func (h Hook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func severityFromLevel(level logrus.Level) (stackdriverlogging.Severity, bool) {
	switch level {
	case logrus.PanicLevel:
		return stackdriverlogging.Emergency, true
	case logrus.FatalLevel:
		return stackdriverlogging.Critical, true
	case logrus.ErrorLevel:
		return stackdriverlogging.Error, true
	case logrus.WarnLevel:
		return stackdriverlogging.Warning, true
	case logrus.InfoLevel:
		return stackdriverlogging.Info, true
	case logrus.DebugLevel:
		return stackdriverlogging.Debug, true
	default:
		return stackdriverlogging.Default, false
	}
}

func newStackdriverEntryFromLogrusEntry(e *logrus.Entry, severity stackdriverlogging.Severity) stackdriverlogging.Entry {
	payload := make(map[string]interface{}, len(e.Data)+1)
	for k, v := range e.Data {
		if err, ok := v.(error); ok {
			payload[k] = err.Error()

			continue
		}

		payload[k] = v
	}
	payload["_message"] = e.Message

	return stackdriverlogging.Entry{
		Timestamp: e.Time,
		Payload:   payload,
		Severity:  severity,
	}
}
