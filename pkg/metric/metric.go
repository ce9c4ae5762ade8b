package metric

import (
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
)

const defaultMessage = "welp"

type name string

const (
	blizzardAPIIngress  name = "blizzard_api_ingress"
	operationalDuration name = "operational_duration"
)

func report(n name, fields logrus.Fields) {
	fields["metric"] = n

	logging.WithFields(fields).Info(defaultMessage)
}

// BlizzardAPIIngressMetrics - encapsulation of blizzard api metrics
type BlizzardAPIIngressMetrics struct {
	ByteCount          int
	ConnectionDuration time.Duration
	RequestDuration    time.Duration
	Status             int
}

func (b BlizzardAPIIngressMetrics) toFields() logrus.Fields {
	return logrus.Fields{
		"byte_count":    b.ByteCount,
		"conn_duration": b.ConnectionDuration.Milliseconds(),
		"req_duration":  b.RequestDuration.Milliseconds(),
		"status":        b.Status,
	}
}

// ReportBlizzardAPIIngress - for knowing how much network ingress is happening via blizzard api
func ReportBlizzardAPIIngress(uri string, m BlizzardAPIIngressMetrics) error {
	// obfuscating any access token from the uri before logging
	uri, err := ObfuscateURI(uri)
	if err != nil {
		return err
	}

	fields := m.toFields()
	fields["uri"] = uri

	report(blizzardAPIIngress, fields)

	return nil
}

// ObfuscateURI - replaces the access_token query param, when present
func ObfuscateURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}

	q := u.Query()
	if q.Get("access_token") == "" {
		return u.String(), nil
	}

	q.Set("access_token", "xxx")
	u.RawQuery = q.Encode()

	return u.String(), nil
}

type durationKind string

/*
kinds of duration metrics
*/
const (
	HTTPRequestDuration   durationKind = "http_request_duration"
	SessionsPruneDuration durationKind = "sessions_prune_duration"
)

// DurationMetrics - required metrics for every duration entry
type DurationMetrics struct {
	Duration time.Duration
}

func (d DurationMetrics) toFields(kind durationKind) logrus.Fields {
	durationInMilliseconds := d.Duration.Milliseconds()

	return logrus.Fields{
		"duration_kind":                         kind,
		"duration_length":                       durationInMilliseconds,
		fmt.Sprintf("%s_duration_length", kind): durationInMilliseconds,
	}
}

// ReportDuration - for knowing how long things take
func ReportDuration(kind durationKind, metrics DurationMetrics, fields logrus.Fields) {
	out := metrics.toFields(kind)
	for k, v := range fields {
		out[k] = v
	}

	report(operationalDuration, out)
}
