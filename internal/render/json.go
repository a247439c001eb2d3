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

package render

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/relctxhq/relctx/internal/github"
	"github.com/relctxhq/relctx/internal/release"
	"github.com/relctxhq/relctx/internal/sanitize"
)

// minFileChangeLines is the change threshold below which a non-risky
// compare-level file is omitted from the JSON artifact.
const minFileChangeLines = 10

// Artifact is the machine-readable report. It carries the same content as
// the Markdown report in a structured form.
type Artifact struct {
	Repo         string                `json:"repo"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	GeneratedAt  string                `json:"generated_at"`
	Compare      release.Compare       `json:"compare"`
	Stats        release.Stats         `json:"stats"`
	Commits      []release.CommitEntry `json:"commits"`
	PRs          []PRArtifact          `json:"prs"`
	CompareFiles []github.FileChange   `json:"compare_files"`
}

// PRArtifact is one pull request in the JSON artifact. The full body is
// replaced by a sanitized snippet plus the structured hints mined from it.
type PRArtifact struct {
	Number          int                 `json:"number"`
	Title           string              `json:"title"`
	URL             string              `json:"url"`
	User            string              `json:"user"`
	MergedAt        *time.Time          `json:"merged_at"`
	Labels          []string            `json:"labels"`
	BaseRef         string              `json:"base_ref"`
	HeadRef         string              `json:"head_ref"`
	Files           []github.FileChange `json:"files,omitempty"`
	BodySnippet     string              `json:"body_snippet"`
	BreakingChanges []string            `json:"breaking_changes,omitempty"`
	KeyInfo         *sanitize.KeyInfo   `json:"key_info,omitempty"`
}

// BuildArtifact assembles the JSON report model. Slices are always non-nil
// so empty collections encode as [] rather than null.
func BuildArtifact(ctx *release.Context, opts Options) *Artifact {
	artifact := &Artifact{
		Repo:         ctx.RepoSlug(),
		From:         ctx.FromRef,
		To:           ctx.ToRef,
		GeneratedAt:  ctx.GeneratedAt.Format(generatedAtLayout),
		Compare:      ctx.Compare,
		Stats:        ctx.Stats,
		Commits:      ctx.Commits,
		PRs:          make([]PRArtifact, 0, len(ctx.PullRequests)),
		CompareFiles: filterCompareFiles(ctx.CompareFiles),
	}
	if artifact.Commits == nil {
		artifact.Commits = []release.CommitEntry{}
	}

	for _, pr := range ctx.PullRequests {
		entry := PRArtifact{
			Number:      pr.Number,
			Title:       pr.Title,
			URL:         pr.URL,
			User:        pr.Author,
			MergedAt:    pr.MergedAt,
			Labels:      pr.Labels,
			BaseRef:     pr.BaseRef,
			HeadRef:     pr.HeadRef,
			Files:       pr.Files,
			BodySnippet: sanitize.Summarize(pr.Body, opts.SummaryMaxChars),
		}
		if entry.Labels == nil {
			entry.Labels = []string{}
		}
		entry.BreakingChanges = sanitize.ExtractBreakingChanges(pr.Body)
		if info := sanitize.ExtractKeyInfo(pr.Body); !info.Empty() {
			entry.KeyInfo = &info
		}
		artifact.PRs = append(artifact.PRs, entry)
	}

	return artifact
}

// JSON renders the report as indented JSON with a trailing newline.
// Output is deterministic for a given model and options.
func JSON(ctx *release.Context, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(BuildArtifact(ctx, opts)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// filterCompareFiles keeps risky paths and files with significant changes,
// dropping diff noise from the artifact.
func filterCompareFiles(files []github.FileChange) []github.FileChange {
	filtered := make([]github.FileChange, 0, len(files))
	for _, f := range files {
		if riskyPathPattern.MatchString(f.Path) || f.Additions+f.Deletions >= minFileChangeLines {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
