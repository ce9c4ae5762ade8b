package command

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/database"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/metric"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
)

// PruneSessions - deletes expired sessions and pending logins
func PruneSessions(c sotah.Config) error {
	logging.Info("Starting prune-sessions")

	return pruneSessions(c.DatabasePath, time.Now().UTC())
}

func pruneSessions(dbFilepath string, now time.Time) error {
	startTime := time.Now()

	sessions, err := database.NewDatabase(dbFilepath)
	if err != nil {
		return err
	}
	defer sessions.Close()

	result, err := sessions.PruneExpired(now)
	if err != nil {
		return err
	}

	metric.ReportDuration(
		metric.SessionsPruneDuration,
		metric.DurationMetrics{Duration: time.Since(startTime)},
		logrus.Fields{
			"sessions":       result.Sessions,
			"pending-logins": result.PendingLogins,
		},
	)

	logging.WithFields(logrus.Fields{
		"sessions":       result.Sessions,
		"pending-logins": result.PendingLogins,
	}).Info("Pruned expired records")

	return nil
}
