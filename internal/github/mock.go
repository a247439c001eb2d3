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
	"sync"
)

// MockClient is a configurable Client implementation for tests. Each
// operation delegates to the corresponding func field; unset funcs return
// zero values. Call counts are tracked for assertions.
type MockClient struct {
	CompareRefsFunc           func(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error)
	PullRequestsForCommitFunc func(ctx context.Context, owner, repo, sha string) ([]int, error)
	PullRequestFunc           func(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error)

	mu                         sync.Mutex
	CompareRefsCalls           int
	PullRequestsForCommitCalls int
	PullRequestCalls           int
}

// CompareRefs implements Client.
func (m *MockClient) CompareRefs(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error) {
	m.mu.Lock()
	m.CompareRefsCalls++
	m.mu.Unlock()
	if m.CompareRefsFunc != nil {
		return m.CompareRefsFunc(ctx, owner, repo, base, head, opts)
	}
	return &Comparison{}, nil
}

// PullRequestsForCommit implements Client.
func (m *MockClient) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]int, error) {
	m.mu.Lock()
	m.PullRequestsForCommitCalls++
	m.mu.Unlock()
	if m.PullRequestsForCommitFunc != nil {
		return m.PullRequestsForCommitFunc(ctx, owner, repo, sha)
	}
	return nil, nil
}

// PullRequest implements Client.
func (m *MockClient) PullRequest(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
	m.mu.Lock()
	m.PullRequestCalls++
	m.mu.Unlock()
	if m.PullRequestFunc != nil {
		return m.PullRequestFunc(ctx, owner, repo, number, opts)
	}
	return &PullRequest{Number: number}, nil
}
