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

import "context"

// Client defines the interface for the GitHub operations the tool needs.
// This interface allows for easy mocking in tests.
type Client interface {
	// CompareRefs returns the ordered commits between base and head along
	// with compare-level metadata, paginating until the API reports no
	// further pages.
	CompareRefs(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error)

	// PullRequestsForCommit returns the numbers of pull requests associated
	// with the given commit, most relevant first. Used as a fallback when
	// the commit message carries no PR reference.
	PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]int, error)

	// PullRequest resolves a single pull request by number, optionally
	// including its changed-file list.
	PullRequest(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error)
}

// clientSet routes each operation to the API that serves it: compare and
// commit lookups to REST, pull request details to GraphQL.
type clientSet struct {
	rest *RESTClient
	gql  *GraphQLClient
}

// NewClient combines a REST and a GraphQL client into a single Client.
func NewClient(rest *RESTClient, gql *GraphQLClient) Client {
	return &clientSet{rest: rest, gql: gql}
}

func (c *clientSet) CompareRefs(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error) {
	return c.rest.CompareRefs(ctx, owner, repo, base, head, opts)
}

func (c *clientSet) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]int, error) {
	return c.rest.PullRequestsForCommit(ctx, owner, repo, sha)
}

func (c *clientSet) PullRequest(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
	return c.gql.PullRequest(ctx, owner, repo, number, opts)
}
