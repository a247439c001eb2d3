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

// Package render turns the aggregated report model into its two artifact
// forms, Markdown and JSON. Both renderers read the same model and the same
// options, so the artifacts always agree on content.
package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/relctxhq/relctx/internal/github"
	"github.com/relctxhq/relctx/internal/release"
	"github.com/relctxhq/relctx/internal/sanitize"
)

// generatedAtLayout is the timestamp format stamped into both artifacts.
const generatedAtLayout = "2006-01-02 15:04:05Z"

// Options holds the report tunables shared by both renderers.
type Options struct {
	// SummaryMaxChars bounds sanitized PR body snippets.
	SummaryMaxChars int

	// FilesShown bounds how many files are listed per PR.
	FilesShown int

	// RiskMaxItems bounds the heuristic impact section.
	RiskMaxItems int

	// CommitFallbackMax bounds the commit list shown when no PRs were found.
	CommitFallbackMax int
}

// riskyPathPattern flags paths whose changes tend to need extra review
// attention: migrations, infra manifests, CI workflows, dependency locks.
var riskyPathPattern = regexp.MustCompile(`(?i)migrations/|schema|docker|helm|k8s|terraform|\.github/workflows|settings|config|requirements|package-lock\.json|pnpm-lock\.yaml|yarn\.lock|poetry\.lock`)

// significantChangeLines marks a file as worth prioritizing regardless of
// its path once its diff exceeds this many changed lines.
const significantChangeLines = 50

// Markdown renders the human-readable report.
func Markdown(ctx *release.Context, opts Options) string {
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("# Release context: %s", ctx.RepoSlug())
	line("")
	line("- Range: `%s` → `%s`", ctx.FromRef, ctx.ToRef)
	line("- Generated: %s", ctx.GeneratedAt.Format(generatedAtLayout))
	line("- Commits in range: **%d**", ctx.Stats.CommitCount)
	line("- PRs detected: **%d**", ctx.Stats.PRCount)
	line("")

	if len(ctx.CompareFiles) > 0 {
		line("## Diff stats (compare endpoint)")
		line("- Files changed: **%d**", ctx.Stats.FilesChanged)
		line("- Additions: **%d** | Deletions: **%d**", ctx.Stats.Additions, ctx.Stats.Deletions)
		line("")
	}

	if risky := riskyPaths(ctx.CompareFiles); len(risky) > 0 {
		line("## Potential impact areas (heuristic)")
		line("These files suggest higher-risk changes (migrations/config/CI/deps):")
		shown := risky
		if len(shown) > opts.RiskMaxItems {
			shown = shown[:opts.RiskMaxItems]
		}
		for _, path := range shown {
			line("- `%s`", path)
		}
		if len(risky) > opts.RiskMaxItems {
			line("- …and %d more", len(risky)-opts.RiskMaxItems)
		}
		line("")
	}

	for _, section := range release.SectionOrder {
		prs := ctx.Grouped[section]
		if len(prs) == 0 {
			continue
		}
		line("## %s", sectionHeading(section))
		for _, pr := range prs {
			renderPR(line, pr, section, opts)
		}
		line("")
	}

	if ctx.Stats.PRCount == 0 && ctx.Stats.CommitCount > 0 {
		line("## Commits (no PRs detected)")
		shown := ctx.Commits
		if len(shown) > opts.CommitFallbackMax {
			shown = shown[:opts.CommitFallbackMax]
		}
		for _, ce := range shown {
			line("- %s — %s", shortSHA(ce.SHA), ce.Message)
		}
		if len(ctx.Commits) > opts.CommitFallbackMax {
			line("- …and %d more", len(ctx.Commits)-opts.CommitFallbackMax)
		}
		line("")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func sectionHeading(section string) string {
	heading := strings.ToUpper(section[:1]) + section[1:]
	switch section {
	case "security":
		return "⚠️ " + heading
	case "breaking":
		return "🔴 " + heading + " Changes"
	}
	return heading
}

func renderPR(line func(string, ...any), pr *github.PullRequest, section string, opts Options) {
	prefix := ""
	if section == "security" || hasSecurityLabel(pr.Labels) {
		prefix = "🔒 "
	}
	line("- %s#%d — %s (@%s)", prefix, pr.Number, pr.Title, pr.Author)
	if len(pr.Labels) > 0 {
		line("  - Labels: %s", strings.Join(pr.Labels, ", "))
	}
	line("  - URL: %s", pr.URL)

	if breaking := sanitize.ExtractBreakingChanges(pr.Body); len(breaking) > 0 {
		line("  - ⚠️ Breaking changes:")
		if len(breaking) > 3 {
			breaking = breaking[:3]
		}
		for _, bc := range breaking {
			for _, l := range strings.Split(bc, "\n") {
				if trimmed := strings.TrimSpace(l); trimmed != "" {
					line("    - %s", trimmed)
				}
			}
		}
	}

	if snippet := sanitize.Summarize(pr.Body, opts.SummaryMaxChars); snippet != "" {
		line("  - Notes:")
		for _, l := range strings.Split(snippet, "\n") {
			line("    - %s", l)
		}
	}

	if len(pr.Files) > 0 {
		shown := prioritizeFiles(pr.Files, opts.FilesShown)
		line("  - Files touched (%d shown, %d total):", len(shown), len(pr.Files))
		for _, f := range shown {
			if f.Additions > 0 || f.Deletions > 0 {
				line("    - `%s` (+%d/-%d)", f.Path, f.Additions, f.Deletions)
			} else {
				line("    - `%s`", f.Path)
			}
		}
		if len(pr.Files) > len(shown) {
			line("    - …and %d more", len(pr.Files)-len(shown))
		}
	}
}

func hasSecurityLabel(labels []string) bool {
	for _, l := range labels {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "security") || strings.Contains(lower, "cve") ||
			strings.Contains(lower, "vulnerability") {
			return true
		}
	}
	return false
}

// riskyPaths returns the deduplicated, sorted paths that match the risk
// heuristic.
func riskyPaths(files []github.FileChange) []string {
	set := make(map[string]struct{})
	for _, f := range files {
		if riskyPathPattern.MatchString(f.Path) {
			set[f.Path] = struct{}{}
		}
	}
	paths := make([]string, 0, len(set))
	for p := range set {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// prioritizeFiles picks the files most worth a reviewer's attention: risky
// paths and large diffs first, ordered by change magnitude, then the rest.
func prioritizeFiles(files []github.FileChange, max int) []github.FileChange {
	var risky, other []github.FileChange
	for _, f := range files {
		if riskyPathPattern.MatchString(f.Path) || f.Additions+f.Deletions > significantChangeLines {
			risky = append(risky, f)
		} else {
			other = append(other, f)
		}
	}
	byMagnitude := func(s []github.FileChange) {
		sort.SliceStable(s, func(i, j int) bool {
			return s[i].Additions+s[i].Deletions > s[j].Additions+s[j].Deletions
		})
	}
	byMagnitude(risky)
	byMagnitude(other)

	result := risky
	if len(result) > max {
		return result[:max]
	}
	if remaining := max - len(result); remaining > 0 && len(other) > 0 {
		if len(other) > remaining {
			other = other[:remaining]
		}
		result = append(result, other...)
	}
	return result
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
