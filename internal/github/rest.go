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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/relctxhq/relctx/internal/apierror"
	relerrors "github.com/relctxhq/relctx/internal/errors"
)

// RESTClient talks to the GitHub REST API v3. It serves the two operations
// that have no GraphQL equivalent: ref comparison and commit-to-PR lookup.
type RESTClient struct {
	endpoint   string
	httpClient *http.Client
	inspector  apierror.Inspector
}

// NewRESTClient creates a REST client against the given API endpoint
// (https://api.github.com for public GitHub). The http.Client is expected
// to carry the auth and rate limit transport from NewHTTPClient.
func NewRESTClient(endpoint string, httpClient *http.Client) *RESTClient {
	return &RESTClient{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: httpClient,
		inspector:  apierror.NewInspector(),
	}
}

// compareResponse mirrors the wire shape of the compare endpoint.
type compareResponse struct {
	AheadBy      int    `json:"ahead_by"`
	BehindBy     int    `json:"behind_by"`
	TotalCommits int    `json:"total_commits"`
	HTMLURL      string `json:"html_url"`
	Commits      []struct {
		SHA    string `json:"sha"`
		Commit struct {
			Message string `json:"message"`
			Author  struct {
				Name string    `json:"name"`
				Date time.Time `json:"date"`
			} `json:"author"`
		} `json:"commit"`
		Author *struct {
			Login string `json:"login"`
		} `json:"author"`
		Parents []struct {
			SHA string `json:"sha"`
		} `json:"parents"`
	} `json:"commits"`
	Files []struct {
		Filename  string `json:"filename"`
		Status    string `json:"status"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
	} `json:"files"`
}

// CompareRefs fetches the comparison between base and head, following the
// commits pagination until the API returns a short page. Compare-level
// metadata and the file list come from the first page; GitHub repeats the
// file list on every page, so later pages contribute commits only.
func (c *RESTClient) CompareRefs(ctx context.Context, owner, repo, base, head string, opts CompareOptions) (*Comparison, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	path := fmt.Sprintf("/repos/%s/%s/compare/%s...%s",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(base), url.PathEscape(head))

	var result *Comparison
	for page := 1; ; page++ {
		query := url.Values{
			"per_page": {strconv.Itoa(perPage)},
			"page":     {strconv.Itoa(page)},
		}

		var payload compareResponse
		if err := c.get(ctx, path, query, &payload); err != nil {
			return nil, fmt.Errorf("compare %s/%s %s...%s: %w", owner, repo, base, head, err)
		}

		if page == 1 {
			result = &Comparison{
				AheadBy:      payload.AheadBy,
				BehindBy:     payload.BehindBy,
				TotalCommits: payload.TotalCommits,
				HTMLURL:      payload.HTMLURL,
				Commits:      make([]Commit, 0, payload.TotalCommits),
				Files:        make([]FileChange, 0, len(payload.Files)),
			}
			for _, f := range payload.Files {
				result.Files = append(result.Files, FileChange{
					Path:      f.Filename,
					Status:    f.Status,
					Additions: f.Additions,
					Deletions: f.Deletions,
				})
			}
		}

		for _, raw := range payload.Commits {
			commit := Commit{
				SHA:     raw.SHA,
				Message: raw.Commit.Message,
				Author:  raw.Commit.Author.Name,
				Date:    raw.Commit.Author.Date,
				Parents: make([]string, 0, len(raw.Parents)),
			}
			if raw.Author != nil {
				commit.Login = raw.Author.Login
			}
			for _, p := range raw.Parents {
				commit.Parents = append(commit.Parents, p.SHA)
			}
			result.Commits = append(result.Commits, commit)
		}

		if len(payload.Commits) < perPage {
			return result, nil
		}
	}
}

// PullRequestsForCommit returns the pull request numbers GitHub associates
// with the given commit, in API order (most relevant first).
func (c *RESTClient) PullRequestsForCommit(ctx context.Context, owner, repo, sha string) ([]int, error) {
	path := fmt.Sprintf("/repos/%s/%s/commits/%s/pulls",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(sha))

	var pulls []struct {
		Number int `json:"number"`
	}
	if err := c.get(ctx, path, nil, &pulls); err != nil {
		return nil, fmt.Errorf("pulls for commit %s: %w", shortSHA(sha), err)
	}

	numbers := make([]int, 0, len(pulls))
	for _, p := range pulls {
		numbers = append(numbers, p.Number)
	}
	return numbers, nil
}

// get issues a GET request and decodes the JSON response into v.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, v interface{}) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.mapStatusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapTransportError classifies request-level failures into domain errors.
// Context cancellation and rate limit errors pass through unchanged so
// callers can still test for them with errors.Is.
func (c *RESTClient) mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, relerrors.ErrRateLimit) {
		return err
	}
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("%v: %w", err, relerrors.ErrNetworkFailure)
	}
	return err
}

// mapStatusError converts a non-200 response into a domain error.
func (c *RESTClient) mapStatusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	snippet := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("github returned 401: %w", relerrors.ErrInvalidToken)
	case http.StatusForbidden:
		// Rate-limited 403s are handled in the transport; a 403 reaching
		// here means the token lacks access.
		return fmt.Errorf("github returned 403: %w", relerrors.ErrInvalidToken)
	case http.StatusNotFound:
		return fmt.Errorf("github returned 404: %w", relerrors.ErrNotFound)
	default:
		return fmt.Errorf("github returned %d: %s", resp.StatusCode, snippet)
	}
}

// shortSHA abbreviates a commit hash for log and error messages.
func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
