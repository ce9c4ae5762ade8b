package utiltest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/wcd-ekocoy/wow-achievements/pkg/util"
)

// ServeFile - serves a file up in an httptest server
func ServeFile(relativePath string) (*httptest.Server, error) {
	body, err := util.ReadFile(relativePath)
	if err != nil {
		return nil, err
	}

	return ServeStatus(http.StatusOK, body), nil
}

// ServeStatus - serves a fixed status and body in an httptest server
func ServeStatus(status int, body []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.WriteHeader(status)
		w.Write(body)
	}))
}

// ServeGzipped - serves an already gzipped body with a gzip content-encoding
func ServeGzipped(status int, gzippedBody []byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(status)
		w.Write(gzippedBody)
	}))
}

// RecordedRequest - what a recording server saw
type RecordedRequest struct {
	Method        string
	Path          string
	EscapedPath   string
	Query         string
	Authorization string
	Form          map[string]string
}

// Recorder - collects requests received by a test server
type Recorder struct {
	mu       sync.Mutex
	requests []RecordedRequest
}

func (rec *Recorder) add(r *http.Request) {
	form := map[string]string{}
	if err := r.ParseForm(); err == nil {
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.requests = append(rec.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		EscapedPath:   r.URL.EscapedPath(),
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Form:          form,
	})
}

// Requests - a copy of the recorded requests
func (rec *Recorder) Requests() []RecordedRequest {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := make([]RecordedRequest, len(rec.requests))
	copy(out, rec.requests)

	return out
}

// ServeRecorded - serves a fixed status and body while recording every inbound request
func ServeRecorded(status int, body []byte) (*httptest.Server, *Recorder) {
	rec := &Recorder{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)

		w.Header().Set("Content-Type", "application/json;charset=UTF-8")
		w.WriteHeader(status)
		w.Write(body)
	}))

	return ts, rec
}
