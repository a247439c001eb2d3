// Copyright 2025 Relctx Authors
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package github

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/relctxhq/relctx/internal/config"
	relerrors "github.com/relctxhq/relctx/internal/errors"
	"github.com/relctxhq/relctx/internal/ratelimit"
	"github.com/relctxhq/relctx/pkg/version"
)

// rateLimitMaxAttempts bounds how many times a single request is re-issued
// after a rate limit pause before the error is surfaced.
const rateLimitMaxAttempts = 3

// authTransport adds the authentication and standard GitHub headers to
// every request.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/vnd.github+json")
	}
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", fmt.Sprintf("relctx/%s", version.Version))
	return t.base.RoundTrip(req)
}

// rateLimitTransport detects rate limit responses and, when auto-wait is
// enabled, pauses until the reset (capped by MaxWait) and retries. The retry
// count is bounded so a persistently limited token cannot loop forever.
type rateLimitTransport struct {
	base     http.RoundTripper
	detector *ratelimit.Detector
	waiter   *ratelimit.Waiter
	cfg      config.RateLimitConfig
}

// RoundTrip implements http.RoundTripper with rate limit handling.
func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastDelay time.Duration

	for attempt := 0; attempt < rateLimitMaxAttempts; attempt++ {
		attemptReq := req.Clone(req.Context())
		if attempt > 0 && req.Body != nil {
			// The first attempt consumed the body; rewind it for the retry.
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewind request body: %v: %w", err, relerrors.ErrRateLimit)
			}
			attemptReq.Body = body
		}

		resp, err := t.base.RoundTrip(attemptReq)
		if err != nil {
			return nil, err
		}

		if !t.detector.IsRateLimited(resp) {
			return resp, nil
		}

		info := t.detector.Detect(resp)
		drainAndClose(resp.Body)

		if !t.cfg.AutoWait {
			return nil, fmt.Errorf("rate limited, reset at %s: %w",
				info.Reset.Format(time.Kitchen), relerrors.ErrRateLimit)
		}

		if req.Body != nil && req.GetBody == nil {
			// The body cannot be replayed, so waiting would be wasted;
			// surface the rate limit and let the caller re-issue.
			return nil, fmt.Errorf("rate limited and request body is not replayable: %w",
				relerrors.ErrRateLimit)
		}

		lastDelay = t.detector.Delay(info, t.cfg.MaxWait)
		if err := t.waiter.Wait(req.Context(), lastDelay); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("still rate limited after %d waits (last %s): %w",
		rateLimitMaxAttempts, lastDelay.Round(time.Second), relerrors.ErrRateLimit)
}

// drainAndClose discards a response body so the connection can be reused.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}

// NewHTTPClient builds the shared HTTP client for both API clients:
// connection pooling, auth headers, and rate limit handling.
func NewHTTPClient(token string, rl config.RateLimitConfig) *http.Client {
	// No overall client timeout: a rate limit pause can legitimately exceed
	// any sane request deadline. Slow servers are caught by the header
	// timeout instead, and cancellation comes from the run context.
	transport := &http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &http.Client{
		Transport: &rateLimitTransport{
			base: &authTransport{
				token: token,
				base:  transport,
			},
			detector: ratelimit.NewDetector(),
			waiter:   ratelimit.NewWaiter(os.Stderr),
			cfg:      rl,
		},
	}
}
