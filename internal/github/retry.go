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
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/relctxhq/relctx/internal/apierror"
)

// RetryConfig configures the retry behavior for API calls.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Client with automatic retry logic for transient
// network errors using exponential backoff. Rate limit handling already
// happens in the transport; whatever rate limit error escapes it has
// exhausted its wait budget and is not retried here.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector apierror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration.
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: apierror.NewInspector(),
	}
}

// CompareRefs implements the Client interface with retry logic.
func (r *RetryClient) CompareRefs(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error) {
	return withRetry(ctx, r, func() (*Comparison, error) {
		return r.client.CompareRefs(ctx, owner, repo, base, head, opts)
	})
}

// PullRequestsForCommit implements the Client interface with retry logic.
func (r *RetryClient) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]int, error) {
	return withRetry(ctx, r, func() ([]int, error) {
		return r.client.PullRequestsForCommit(ctx, owner, repo, sha)
	})
}

// PullRequest implements the Client interface with retry logic.
func (r *RetryClient) PullRequest(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
	return withRetry(ctx, r, func() (*PullRequest, error) {
		return r.client.PullRequest(ctx, owner, repo, number, opts)
	})
}

// withRetry runs fn up to MaxRetries+1 times, backing off exponentially
// between attempts. All the wrapped operations are idempotent GETs, so
// re-issuing them is safe.
func withRetry[T any](ctx context.Context, r *RetryClient, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !r.inspector.IsNetworkError(err) {
			return zero, err
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		fmt.Fprintf(os.Stderr, "network error, retrying in %v (attempt %d/%d)...\n",
			backoff.Round(time.Millisecond), attempt+1, r.config.MaxRetries)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateBackoff calculates the backoff duration for the given attempt.
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
