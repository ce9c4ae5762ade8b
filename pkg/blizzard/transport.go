package blizzard

import (
	"context"
	"net"
	"net/http"
	"time"
)

// timings of a single round trip, the dial is absent when a connection is reused
type roundTripTimings struct {
	dialStarted  time.Time
	dialFinished time.Time
	started      time.Time
	finished     time.Time
}

func (t roundTripTimings) total() time.Duration {
	return t.finished.Sub(t.started)
}

func (t roundTripTimings) connection() time.Duration {
	return t.dialFinished.Sub(t.dialStarted)
}

func (t roundTripTimings) request() time.Duration {
	return t.total() - t.connection()
}

// timedTransport - records dial and round trip times, one per request
type timedTransport struct {
	next    http.RoundTripper
	dialer  *net.Dialer
	timings roundTripTimings
}

func newTimedTransport(responseHeaderTimeout time.Duration) *timedTransport {
	if responseHeaderTimeout <= 0 {
		responseHeaderTimeout = DefaultTimeout
	}

	tr := &timedTransport{
		dialer: &net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 15 * time.Second,
		},
	}
	tr.next = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           tr.dialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: responseHeaderTimeout,
		DisableKeepAlives:     true,
	}

	return tr
}

func (tr *timedTransport) dialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	tr.timings.dialStarted = time.Now()
	conn, err := tr.dialer.DialContext(ctx, network, addr)
	tr.timings.dialFinished = time.Now()

	return conn, err
}

func (tr *timedTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	tr.timings.started = time.Now()
	resp, err := tr.next.RoundTrip(r)
	tr.timings.finished = time.Now()

	return resp, err
}
