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

import "time"

// Commit represents a single commit from the compare endpoint.
type Commit struct {
	SHA     string    `json:"sha"`
	Message string    `json:"message"`
	Author  string    `json:"author"`
	Login   string    `json:"login,omitempty"`
	Date    time.Time `json:"date"`
	Parents []string  `json:"parents"`
}

// FileChange describes one changed file, either at the compare level or
// within a single pull request.
type FileChange struct {
	Path      string `json:"path"`
	Status    string `json:"status,omitempty"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Comparison is the result of comparing two refs: the ordered commits
// reachable from the head ref but not the base ref, plus the compare-level
// file list (which GitHub may truncate for very large diffs).
type Comparison struct {
	AheadBy      int          `json:"ahead_by"`
	BehindBy     int          `json:"behind_by"`
	TotalCommits int          `json:"total_commits"`
	HTMLURL      string       `json:"html_url"`
	Commits      []Commit     `json:"commits"`
	Files        []FileChange `json:"files"`
}

// PullRequest carries the pull request metadata rendered into the report.
type PullRequest struct {
	Number   int          `json:"number"`
	Title    string       `json:"title"`
	Body     string       `json:"body"`
	URL      string       `json:"url"`
	Author   string       `json:"user"`
	MergedAt *time.Time   `json:"merged_at,omitempty"`
	Labels   []string     `json:"labels"`
	BaseRef  string       `json:"base_ref"`
	HeadRef  string       `json:"head_ref"`
	Files    []FileChange `json:"files,omitempty"`
}

// CompareOptions configures how the compare endpoint is paginated.
type CompareOptions struct {
	// PerPage controls how many commits are requested per page.
	// Defaults to 100, GitHub's maximum.
	PerPage int
}

// PullRequestOptions configures how much detail to fetch per pull request.
type PullRequestOptions struct {
	// IncludeFiles fetches the changed-file list via the files connection.
	IncludeFiles bool

	// MaxFiles bounds how many files are collected per pull request.
	MaxFiles int
}

const (
	defaultPerPage  = 100
	filePageSize    = 100
	defaultMaxFiles = 200
)
