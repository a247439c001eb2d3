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
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	"github.com/relctxhq/relctx/internal/apierror"
	relerrors "github.com/relctxhq/relctx/internal/errors"
)

// GraphQLClient resolves pull request details via the GitHub GraphQL API.
// A single query returns the metadata, labels, and (optionally) the changed
// file list that would take several REST round trips.
type GraphQLClient struct {
	client    *graphql.Client
	inspector apierror.Inspector
}

// NewGraphQLClient creates a client against the given GraphQL endpoint.
// The http.Client is expected to carry the auth and rate limit transport
// from NewHTTPClient.
func NewGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: apierror.NewInspector(),
	}
}

// prFields is the common shape of the pull request node in our queries.
type prFields struct {
	Number      graphql.Int
	Title       graphql.String
	Body        graphql.String
	URL         graphql.String `graphql:"url"`
	MergedAt    *time.Time
	BaseRefName graphql.String
	HeadRefName graphql.String
	Author      struct {
		Login graphql.String
	}
	Labels struct {
		Nodes []struct {
			Name graphql.String
		}
	} `graphql:"labels(first: 20)"`
}

// PullRequest fetches a pull request by number. When opts.IncludeFiles is
// set, the files connection is paginated by cursor until opts.MaxFiles is
// reached or no pages remain.
func (c *GraphQLClient) PullRequest(ctx context.Context, owner, repo string, number int, opts PullRequestOptions) (*PullRequest, error) {
	var query struct {
		Repository struct {
			PullRequest prFields `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  graphql.String(owner),
		"name":   graphql.String(repo),
		"number": graphql.Int(number), // #nosec G115 - PR numbers fit in int32
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	pr := convertPR(&query.Repository.PullRequest)

	if opts.IncludeFiles {
		files, err := c.pullRequestFiles(ctx, owner, repo, number, opts.MaxFiles)
		if err != nil {
			return nil, err
		}
		pr.Files = files
	}

	return pr, nil
}

// pullRequestFiles pages through the files connection of a pull request.
func (c *GraphQLClient) pullRequestFiles(ctx context.Context, owner, repo string, number, maxFiles int) ([]FileChange, error) {
	if maxFiles <= 0 {
		maxFiles = defaultMaxFiles
	}

	var files []FileChange
	var cursor *graphql.String

	for len(files) < maxFiles {
		var query struct {
			Repository struct {
				PullRequest struct {
					Files struct {
						PageInfo struct {
							HasNextPage graphql.Boolean
							EndCursor   graphql.String
						}
						Nodes []struct {
							Path      graphql.String
							Additions graphql.Int
							Deletions graphql.Int
						}
					} `graphql:"files(first: $first, after: $after)"`
				} `graphql:"pullRequest(number: $number)"`
			} `graphql:"repository(owner: $owner, name: $name)"`
		}

		variables := map[string]interface{}{
			"owner":  graphql.String(owner),
			"name":   graphql.String(repo),
			"number": graphql.Int(number), // #nosec G115 - PR numbers fit in int32
			"first":  graphql.Int(filePageSize),
			"after":  cursor,
		}

		if err := c.client.Query(ctx, &query, variables); err != nil {
			return nil, fmt.Errorf("files for PR #%d: %w", number, c.mapError(err, owner, repo))
		}

		conn := query.Repository.PullRequest.Files
		for _, node := range conn.Nodes {
			files = append(files, FileChange{
				Path:      string(node.Path),
				Additions: int(node.Additions),
				Deletions: int(node.Deletions),
			})
		}

		// An empty page means the cursor is not advancing; stop rather
		// than re-request the same page forever.
		if len(conn.Nodes) == 0 || !bool(conn.PageInfo.HasNextPage) {
			break
		}
		end := conn.PageInfo.EndCursor
		cursor = &end
	}

	if len(files) > maxFiles {
		files = files[:maxFiles]
	}
	return files, nil
}

// convertPR maps the GraphQL node to the domain model.
func convertPR(node *prFields) *PullRequest {
	pr := &PullRequest{
		Number:   int(node.Number),
		Title:    string(node.Title),
		Body:     string(node.Body),
		URL:      string(node.URL),
		Author:   string(node.Author.Login),
		MergedAt: node.MergedAt,
		BaseRef:  string(node.BaseRefName),
		HeadRef:  string(node.HeadRefName),
		Labels:   make([]string, 0, len(node.Labels.Nodes)),
	}
	for _, l := range node.Labels.Nodes {
		pr.Labels = append(pr.Labels, string(l.Name))
	}
	return pr
}

// mapError maps GraphQL errors to domain errors with actionable messages.
func (c *GraphQLClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit.
	switch {
	case c.inspector.IsRateLimitError(err):
		return fmt.Errorf("github API rate limit exceeded: %w", relerrors.ErrRateLimit)
	case c.inspector.IsNotFoundError(err):
		return fmt.Errorf("repository %s/%s or pull request not found: %w", owner, repo, relerrors.ErrNotFound)
	case c.inspector.IsAuthError(err):
		return fmt.Errorf("github authentication failed: %w", relerrors.ErrInvalidToken)
	case c.inspector.IsNetworkError(err):
		return fmt.Errorf("%v: %w", err, relerrors.ErrNetworkFailure)
	default:
		return err
	}
}
