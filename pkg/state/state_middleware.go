package state

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/twinj/uuid"
	"github.com/wcd-ekocoy/wow-achievements/pkg/database"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/metric"
)

// RequestIDHeader carries the request id on every response
const RequestIDHeader = "X-Request-Id"

type contextKey string

const (
	requestIDContextKey contextKey = "request-id"
	sessionContextKey   contextKey = "session"
)

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)

	return id
}

func sessionFromContext(ctx context.Context) (database.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(database.Session)

	return s, ok
}

func (sta State) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewV4().String()
		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDContextKey, id)))
	})
}

func (sta State) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			logging.WithFields(logrus.Fields{
				"panic":          recovered,
				"request-id":     requestIDFromContext(r.Context()),
				"path":           r.URL.Path,
				"header-written": rec.wroteHeader,
			}).Error("Recovered from panic")

			// the response is already underway, nothing else can be sent
			if rec.wroteHeader {
				return
			}

			sta.renderErrorPage(w, r, http.StatusInternalServerError)
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(status int) {
	if !rec.wroteHeader {
		rec.status = status
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wroteHeader = true

	return rec.ResponseWriter.Write(b)
}

func (sta State) withDuration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metric.ReportDuration(
			metric.HTTPRequestDuration,
			metric.DurationMetrics{Duration: time.Since(startTime)},
			logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"request-id": requestIDFromContext(r.Context()),
			},
		)
	})
}

func (sta State) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)

			return
		}

		s, err := sta.Sessions.GetSession(cookie.Value, sta.now())
		if err != nil {
			if !errors.Is(err, database.ErrNotFound) {
				logging.WithField("error", err.Error()).Error("Failed to load session")
			}

			sta.expireSessionCookie(w)
			next.ServeHTTP(w, r)

			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionContextKey, s)))
	})
}
