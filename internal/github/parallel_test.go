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
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPRNumbersForCommits(t *testing.T) {
	mock := &MockClient{
		PullRequestsForCommitFunc: func(ctx context.Context, owner, repo, sha string) ([]int, error) {
			switch sha {
			case "aaa":
				return []int{10}, nil
			case "bbb":
				return nil, nil // no associated PR
			case "ccc":
				return []int{20, 21}, nil
			default:
				return nil, errors.New("boom")
			}
		},
	}

	var warnings bytes.Buffer
	got := PRNumbersForCommits(context.Background(), mock, "acme", "widgets",
		[]string{"aaa", "bbb", "ccc", "ddd"}, 2, &warnings)

	if len(got) != 2 {
		t.Fatalf("got %d results, want 2: %v", len(got), got)
	}
	if got["aaa"] != 10 {
		t.Errorf("aaa -> %d, want 10", got["aaa"])
	}
	if got["ccc"] != 20 {
		t.Errorf("ccc -> %d, want first number 20", got["ccc"])
	}
	if _, ok := got["bbb"]; ok {
		t.Error("bbb should have no entry")
	}
	if !strings.Contains(warnings.String(), "ddd") {
		t.Errorf("expected warning mentioning failed sha, got: %q", warnings.String())
	}
}

func TestFetchPullRequests_JoinsByNumber(t *testing.T) {
	mock := &MockClient{
		PullRequestFunc: func(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
			return &PullRequest{Number: number, Title: fmt.Sprintf("PR %d", number)}, nil
		},
	}

	numbers := []int{5, 3, 8, 1}
	got, err := FetchPullRequests(context.Background(), mock, "acme", "widgets", numbers, PullRequestOptions{}, 3)
	if err != nil {
		t.Fatalf("FetchPullRequests failed: %v", err)
	}

	if len(got) != len(numbers) {
		t.Fatalf("got %d PRs, want %d", len(got), len(numbers))
	}
	for _, n := range numbers {
		pr, ok := got[n]
		if !ok {
			t.Errorf("missing PR #%d", n)
			continue
		}
		if pr.Number != n {
			t.Errorf("PR joined under wrong number: %d -> %d", n, pr.Number)
		}
	}
}

func TestFetchPullRequests_AbortsOnError(t *testing.T) {
	mock := &MockClient{
		PullRequestFunc: func(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
			if number == 3 {
				return nil, errors.New("boom")
			}
			return &PullRequest{Number: number}, nil
		},
	}

	_, err := FetchPullRequests(context.Background(), mock, "acme", "widgets", []int{1, 2, 3, 4}, PullRequestOptions{}, 1)
	if err == nil {
		t.Fatal("expected error to abort the fetch")
	}
	if !strings.Contains(err.Error(), "#3") {
		t.Errorf("error should name the failing PR: %v", err)
	}
}
