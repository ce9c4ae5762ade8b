package blizzard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wcd-ekocoy/wow-achievements/pkg/metric"
	"github.com/wcd-ekocoy/wow-achievements/pkg/util"
)

// ResponseMeta - status and decoded body of a blizzard api response
type ResponseMeta struct {
	ContentLength int
	Body          []byte
	Status        int
}

// IsSuccess checks for a 2xx status
func (meta ResponseMeta) IsSuccess() bool {
	return meta.Status >= http.StatusOK && meta.Status < http.StatusMultipleChoices
}

func newAuthorizedRequest(ctx context.Context, uri string, accessToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	if accessToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	}

	return req, nil
}

func decodeBody(body []byte, contentEncoding string) ([]byte, error) {
	if contentEncoding != "gzip" || len(body) == 0 {
		return body, nil
	}

	return util.GzipDecode(body)
}

// Download - performs an authorized GET against the uri, non-success statuses are returned rather than failed
func Download(ctx context.Context, uri string, accessToken string, timeout time.Duration) (ResponseMeta, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := newAuthorizedRequest(ctx, uri, accessToken)
	if err != nil {
		return ResponseMeta{}, err
	}

	tr := newTimedTransport(timeout)
	resp, err := (&http.Client{Transport: tr}).Do(req)
	if err != nil {
		return ResponseMeta{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ResponseMeta{}, err
	}

	// reporting network ingress before decoding
	err = metric.ReportBlizzardAPIIngress(uri, metric.BlizzardAPIIngressMetrics{
		ByteCount:          len(body),
		ConnectionDuration: tr.timings.connection(),
		RequestDuration:    tr.timings.request(),
		Status:             resp.StatusCode,
	})
	if err != nil {
		return ResponseMeta{}, err
	}

	decoded, err := decodeBody(body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return ResponseMeta{}, err
	}

	return ResponseMeta{
		ContentLength: len(body),
		Body:          decoded,
		Status:        resp.StatusCode,
	}, nil
}
