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

// Package release aggregates compare results and pull request details into a
// single report model that both renderers consume.
package release

import (
	"time"

	"github.com/relctxhq/relctx/internal/github"
)

// CommitEntry is one commit in the compared range, reduced to the fields the
// report needs. PRNumber is zero when no pull request could be associated.
type CommitEntry struct {
	SHA      string    `json:"sha"`
	Message  string    `json:"message"`
	Author   string    `json:"author"`
	Date     time.Time `json:"date"`
	PRNumber int       `json:"pr_number,omitempty"`
}

// Stats summarizes the compared range.
type Stats struct {
	CommitCount   int `json:"commit_count"`
	PRCount       int `json:"pr_count"`
	UniqueAuthors int `json:"unique_authors"`
	FilesChanged  int `json:"files_changed"`
	Additions     int `json:"additions"`
	Deletions     int `json:"deletions"`
}

// Compare carries the range-level metadata from the compare endpoint.
type Compare struct {
	AheadBy      int    `json:"ahead_by"`
	BehindBy     int    `json:"behind_by"`
	TotalCommits int    `json:"total_commits"`
	HTMLURL      string `json:"html_url"`
}

// Context is the aggregated report model. Both the Markdown and JSON
// renderers are views over this one structure.
type Context struct {
	Owner       string
	Repo        string
	FromRef     string
	ToRef       string
	GeneratedAt time.Time

	Compare Compare
	Commits []CommitEntry

	// PullRequests is sorted by number. Grouped buckets the same PRs by
	// report section, each bucket sorted by number.
	PullRequests []*github.PullRequest
	Grouped      map[string][]*github.PullRequest

	CompareFiles []github.FileChange
	Stats        Stats
}

// RepoSlug returns "owner/repo".
func (c *Context) RepoSlug() string {
	return c.Owner + "/" + c.Repo
}
