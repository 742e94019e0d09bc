package sessions

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/akmalqodirov005/e-commerse/pkg/logger"
	"github.com/akmalqodirov005/e-commerse/pkg/metrics"
)

// maxAttempts bounds how often one logical request is sent: the original
// attempt plus at most one retry after a refresh.
const maxAttempts = 2

// Transport is an http.RoundTripper that authorizes every request from the
// session and recovers once from a 401 by refreshing the access token.
type Transport struct {
	Session   *Manager
	Refresher Refresher
	Base      http.RoundTripper
}

func NewTransport(s *Manager, r Refresher, base http.RoundTripper) *Transport {
	return &Transport{Session: s, Refresher: r, Base: base}
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req, err := replayable(req)
	if err != nil {
		return nil, err
	}
	return t.send(req, 1)
}

// send issues attempt n of req. The attempt number travels with the call, so a
// retried request can never trigger a second refresh.
func (t *Transport) send(req *http.Request, attempt int) (*http.Response, error) {
	out, err := outgoing(req, attempt)
	if err != nil {
		return nil, err
	}
	t.Session.Authorize(out)
	resp, err := t.base().RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusUnauthorized || attempt >= maxAttempts {
		return resp, err
	}
	return t.handleUnauthorized(req, resp, attempt)
}

// handleUnauthorized refreshes the session and re-sends req. When the refresh
// fails the original 401 response is returned untouched.
func (t *Transport) handleUnauthorized(req *http.Request, failed *http.Response, attempt int) (*http.Response, error) {
	if t.Refresher == nil {
		return failed, nil
	}
	if _, err := t.Session.Refresh(req.Context(), t.Refresher); err != nil {
		logger.Warnf("upstream %s %s: unauthorized and refresh failed: %v", req.Method, req.URL.Path, err)
		return failed, nil
	}
	drain(failed)
	metrics.RetriedRequests.Inc()
	logger.Debugf("upstream %s %s: retrying with refreshed token", req.Method, req.URL.Path)
	return t.send(req, attempt+1)
}

// replayable makes sure req can produce its body more than once.
func replayable(req *http.Request) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return req, nil
	}
	b, err := io.ReadAll(req.Body)
	req.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("buffer request body: %w", err)
	}
	r := req.Clone(req.Context())
	r.Body = io.NopCloser(bytes.NewReader(b))
	r.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(b)), nil
	}
	return r, nil
}

// outgoing clones req for one attempt; retries get a fresh body.
func outgoing(req *http.Request, attempt int) (*http.Request, error) {
	out := req.Clone(req.Context())
	if attempt > 1 && req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("rewind request body: %w", err)
		}
		out.Body = body
	}
	return out, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
