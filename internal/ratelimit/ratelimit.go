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

// Package ratelimit detects GitHub API rate limit responses and computes
// how long to pause before retrying. The delay is derived from the
// X-RateLimit-Reset header (or Retry-After for secondary limits) and
// capped so a bad header can never stall a run indefinitely.
package ratelimit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// resetSkew is added to the computed wait so a retry fired exactly at the
// reset instant does not race the server-side window rollover.
const resetSkew = 2 * time.Second

// Info describes a rate limit state extracted from an HTTP response.
type Info struct {
	// Reset is the time at which the rate limit window resets.
	// Zero if the response did not carry a usable reset header.
	Reset time.Time

	// RetryAfter is the server-requested delay, if any (secondary limits).
	RetryAfter time.Duration

	// Remaining is the value of X-RateLimit-Remaining, -1 when absent.
	Remaining int
}

// Detector inspects HTTP responses for rate limit conditions.
type Detector struct {
	// now is swappable for tests.
	now func() time.Time
}

// NewDetector creates a Detector using the wall clock.
func NewDetector() *Detector {
	return &Detector{now: time.Now}
}

// IsRateLimited reports whether the response indicates the caller has been
// rate limited. GitHub signals the primary limit with 403 plus
// X-RateLimit-Remaining: 0, and secondary limits with 429 or Retry-After.
func (d *Detector) IsRateLimited(resp *http.Response) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if resp.StatusCode == http.StatusForbidden {
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			return true
		}
		if resp.Header.Get("Retry-After") != "" {
			return true
		}
	}
	return false
}

// Detect extracts rate limit information from a response.
func (d *Detector) Detect(resp *http.Response) Info {
	info := Info{Remaining: -1}
	if resp == nil {
		return info
	}
	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			info.Remaining = n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil && epoch > 0 {
			info.Reset = time.Unix(epoch, 0)
		}
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			info.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return info
}

// Delay computes how long to wait for the given rate limit state, capped at
// maxWait. Retry-After wins over the reset timestamp when both are present.
func (d *Detector) Delay(info Info, maxWait time.Duration) time.Duration {
	var wait time.Duration
	switch {
	case info.RetryAfter > 0:
		wait = info.RetryAfter
	case !info.Reset.IsZero():
		wait = info.Reset.Sub(d.now()) + resetSkew
	default:
		// No usable header; fall back to a conservative pause.
		wait = time.Minute
	}
	if wait < 0 {
		wait = resetSkew
	}
	if maxWait > 0 && wait > maxWait {
		wait = maxWait
	}
	return wait
}

// Waiter performs context-aware rate limit pauses, optionally reporting the
// wait to the given writer (typically stderr).
type Waiter struct {
	progress io.Writer
}

// NewWaiter creates a Waiter. progress may be nil to suppress messages.
func NewWaiter(progress io.Writer) *Waiter {
	return &Waiter{progress: progress}
}

// Wait blocks for the given delay or until the context is canceled.
func (w *Waiter) Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if w.progress != nil {
		fmt.Fprintf(w.progress, "rate limit hit, waiting %s before retry...\n", delay.Round(time.Second))
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
