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

package release

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/relctxhq/relctx/internal/github"
)

// prNumberPatterns match the PR references GitHub writes into commit
// messages for squash merges and merge commits.
var prNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\(#(\d+)\)\s*$`),
	regexp.MustCompile(`Merge pull request #(\d+)\b`),
	regexp.MustCompile(`(?i)pull request #(\d+)\b`),
}

// ExtractPRNumber finds the pull request number referenced by a commit
// message, or 0 when the message carries none.
func ExtractPRNumber(message string) int {
	for _, pat := range prNumberPatterns {
		if m := pat.FindStringSubmatch(message); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return 0
			}
			return n
		}
	}
	return 0
}

// UnmatchedSHAs returns the SHAs of commits whose messages carry no PR
// reference, in commit order. These need an API lookup to associate a PR.
func UnmatchedSHAs(commits []github.Commit) []string {
	var shas []string
	for _, c := range commits {
		if ExtractPRNumber(c.Message) == 0 {
			shas = append(shas, c.SHA)
		}
	}
	return shas
}

// BuildParams carries everything needed to assemble a report model.
type BuildParams struct {
	Owner       string
	Repo        string
	FromRef     string
	ToRef       string
	GeneratedAt time.Time

	Comparison *github.Comparison

	// PullRequests holds the fetched details for every associated PR.
	PullRequests map[int]*github.PullRequest

	// CommitPRs maps commit SHAs to PR numbers found via API lookup, for
	// commits whose messages carried no reference.
	CommitPRs map[string]int
}

// Build assembles the report model: commits deduplicated by SHA in range
// order, each associated with its PR where one exists, PRs sorted and
// grouped by label, and range statistics.
func Build(p BuildParams) *Context {
	ctx := &Context{
		Owner:       p.Owner,
		Repo:        p.Repo,
		FromRef:     p.FromRef,
		ToRef:       p.ToRef,
		GeneratedAt: p.GeneratedAt.UTC(),
		Compare: Compare{
			AheadBy:      p.Comparison.AheadBy,
			BehindBy:     p.Comparison.BehindBy,
			TotalCommits: p.Comparison.TotalCommits,
			HTMLURL:      p.Comparison.HTMLURL,
		},
		CompareFiles: p.Comparison.Files,
	}

	seen := make(map[string]struct{}, len(p.Comparison.Commits))
	authors := make(map[string]struct{})
	for _, c := range p.Comparison.Commits {
		if _, dup := seen[c.SHA]; dup {
			continue
		}
		seen[c.SHA] = struct{}{}

		number := ExtractPRNumber(c.Message)
		if number == 0 {
			number = p.CommitPRs[c.SHA]
		}
		ctx.Commits = append(ctx.Commits, CommitEntry{
			SHA:      c.SHA,
			Message:  subject(c.Message),
			Author:   c.Author,
			Date:     c.Date,
			PRNumber: number,
		})
		if c.Author != "" {
			authors[c.Author] = struct{}{}
		}
	}

	for _, pr := range p.PullRequests {
		ctx.PullRequests = append(ctx.PullRequests, pr)
	}
	sort.Slice(ctx.PullRequests, func(i, j int) bool {
		return ctx.PullRequests[i].Number < ctx.PullRequests[j].Number
	})
	ctx.Grouped = GroupPRs(ctx.PullRequests)

	ctx.Stats = Stats{
		CommitCount:   len(ctx.Commits),
		PRCount:       len(ctx.PullRequests),
		UniqueAuthors: len(authors),
		FilesChanged:  len(ctx.CompareFiles),
	}
	for _, f := range ctx.CompareFiles {
		ctx.Stats.Additions += f.Additions
		ctx.Stats.Deletions += f.Deletions
	}

	return ctx
}

// subject returns the first line of a commit message.
func subject(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
