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
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// PRNumbersForCommits resolves the pull request number for each commit SHA
// via the commit-to-pulls endpoint, fanning out with bounded concurrency.
// Lookup failures for individual commits are reported to warn and skipped;
// a commit with no associated PR simply has no entry in the result. No
// ordering is guaranteed; callers join results by SHA.
func PRNumbersForCommits(ctx context.Context, client Client, owner, repo string, shas []string, concurrency int, warn io.Writer) map[string]int {
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	results := make(map[string]int, len(shas))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, sha := range shas {
		sha := sha
		g.Go(func() error {
			numbers, err := client.PullRequestsForCommit(ctx, owner, repo, sha)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if warn != nil {
					fmt.Fprintf(warn, "warning: commit->pulls lookup failed for %s: %v\n", shortSHA(sha), err)
				}
				return nil
			}
			if len(numbers) > 0 {
				mu.Lock()
				results[sha] = numbers[0]
				mu.Unlock()
			}
			return nil
		})
	}

	// Only context cancellation can surface here; lookups never fail the group.
	if err := g.Wait(); err != nil {
		return results
	}
	return results
}

// FetchPullRequests fetches details for each pull request number with
// bounded concurrency. Unlike the commit lookups, a failed detail fetch
// aborts the run: the report must not silently omit a pull request it
// already attributed commits to. Results are joined by number.
func FetchPullRequests(ctx context.Context, client Client, owner, repo string, numbers []int, opts PullRequestOptions, concurrency int) (map[int]*PullRequest, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	var mu sync.Mutex
	results := make(map[int]*PullRequest, len(numbers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, number := range numbers {
		number := number
		g.Go(func() error {
			pr, err := client.PullRequest(ctx, owner, repo, number, opts)
			if err != nil {
				return fmt.Errorf("fetch PR #%d: %w", number, err)
			}
			mu.Lock()
			results[number] = pr
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
