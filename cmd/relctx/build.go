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

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/relctxhq/relctx/internal/config"
	relerrors "github.com/relctxhq/relctx/internal/errors"
	"github.com/relctxhq/relctx/internal/github"
	"github.com/relctxhq/relctx/internal/output"
	"github.com/relctxhq/relctx/internal/progress"
	"github.com/relctxhq/relctx/internal/release"
	"github.com/relctxhq/relctx/internal/render"
	"github.com/relctxhq/relctx/pkg/version"
)

type buildFlags struct {
	repo           string
	fromRef        string
	toRef          string
	outDir         string
	includePRFiles bool
	token          string
	configFile     string

	maxPRFiles        int
	summaryMaxChars   int
	filesShown        int
	riskMaxItems      int
	commitFallbackMax int
}

func newRootCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "relctx",
		Short: "Build release context reports from GitHub compare ranges",
		Long: `relctx compares two refs (tags, branches, or SHAs) of a GitHub
repository and writes an AI-ready release context: the commits in the range,
the pull requests behind them grouped by label, and change statistics.

Each run produces two artifacts in the output directory, a Markdown report
and a JSON file with the same content in structured form.

Authentication is required via GitHub token:
  - Use --token flag to provide token directly
  - Or set GITHUB_TOKEN environment variable`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.repo, "repo", "", "repository in <owner>/<repo> form (required)")
	cmd.Flags().StringVar(&flags.fromRef, "from", "", "base ref: tag, branch, or SHA (required)")
	cmd.Flags().StringVar(&flags.toRef, "to", "", "head ref: tag, branch, or SHA (required)")
	cmd.Flags().StringVar(&flags.outDir, "out-dir", "", "output directory (default ./out)")
	cmd.Flags().BoolVar(&flags.includePRFiles, "include-pr-files", false, "fetch per-PR file lists (slower)")
	cmd.Flags().StringVar(&flags.token, "token", "", "GitHub personal access token (overrides GITHUB_TOKEN env var)")
	cmd.Flags().StringVar(&flags.configFile, "config", "", "path to config file")

	cmd.Flags().IntVar(&flags.maxPRFiles, "max-pr-files", 0, "max files fetched per PR (default 200)")
	cmd.Flags().IntVar(&flags.summaryMaxChars, "summary-max-chars", 0, "max characters for sanitized PR body snippets (default 700)")
	cmd.Flags().IntVar(&flags.filesShown, "files-shown", 0, "max files listed per PR in Markdown (default 25)")
	cmd.Flags().IntVar(&flags.riskMaxItems, "risk-max-items", 0, "max risky file paths shown (default 60)")
	cmd.Flags().IntVar(&flags.commitFallbackMax, "commit-fallback-max", 0, "max commits listed when no PRs are detected (default 200)")

	for _, required := range []string{"repo", "from", "to"} {
		if err := cmd.MarkFlagRequired(required); err != nil {
			panic(err)
		}
	}

	return cmd
}

// runBuild executes one report run end to end: fetch, aggregate, render,
// write.
func runBuild(cmd *cobra.Command, flags buildFlags) error {
	ctx := cmd.Context()

	owner, repo, err := parseRepository(flags.repo)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	token := cfg.Token(flags.token)
	if token == "" {
		return fmt.Errorf("set %s or use --token: %w", cfg.GitHub.TokenEnv, relerrors.ErrMissingToken)
	}

	httpClient := github.NewHTTPClient(token, cfg.RateLimit)
	rest := github.NewRESTClient(cfg.GitHub.APIEndpoint, httpClient)
	gql := github.NewGraphQLClient(cfg.GitHub.GraphQLEndpoint, httpClient)
	client := github.NewRetryClient(github.NewClient(rest, gql), github.DefaultRetryConfig())

	reporter := progress.New(os.Stderr, progress.IsTerminal(os.Stderr.Fd()))
	defer reporter.Stop()

	reporter.Phase("Comparing %s/%s %s...%s", owner, repo, flags.fromRef, flags.toRef)
	comparison, err := client.CompareRefs(ctx, owner, repo, flags.fromRef, flags.toRef, github.CompareOptions{})
	if err != nil {
		reporter.Stop()
		return err
	}

	commitPRs := map[string]int{}
	if shas := release.UnmatchedSHAs(comparison.Commits); len(shas) > 0 {
		reporter.Phase("Looking up PRs for %d commits", len(shas))
		commitPRs = github.PRNumbersForCommits(ctx, client, owner, repo, shas,
			cfg.Defaults.Concurrency, reporter)
	}
	if err := ctx.Err(); err != nil {
		reporter.Stop()
		return err
	}

	numbers := prNumbers(comparison.Commits, commitPRs)
	var prs map[int]*github.PullRequest
	if len(numbers) > 0 {
		reporter.Phase("Fetching %d pull requests", len(numbers))
		opts := github.PullRequestOptions{
			IncludeFiles: flags.includePRFiles,
			MaxFiles:     cfg.Report.MaxPRFiles,
		}
		prs, err = github.FetchPullRequests(ctx, client, owner, repo, numbers, opts, cfg.Defaults.Concurrency)
		if err != nil {
			reporter.Stop()
			return err
		}
	}

	model := release.Build(release.BuildParams{
		Owner:        owner,
		Repo:         repo,
		FromRef:      flags.fromRef,
		ToRef:        flags.toRef,
		GeneratedAt:  time.Now().UTC(),
		Comparison:   comparison,
		PullRequests: prs,
		CommitPRs:    commitPRs,
	})

	renderOpts := render.Options{
		SummaryMaxChars:   cfg.Report.SummaryMaxChars,
		FilesShown:        cfg.Report.FilesShown,
		RiskMaxItems:      cfg.Report.RiskMaxItems,
		CommitFallbackMax: cfg.Report.CommitFallbackMax,
	}
	markdown := render.Markdown(model, renderOpts)
	jsonData, err := render.JSON(model, renderOpts)
	if err != nil {
		reporter.Stop()
		return fmt.Errorf("encode JSON artifact: %w", err)
	}

	// An interrupt during fetching must not produce artifacts.
	if err := ctx.Err(); err != nil {
		reporter.Stop()
		return err
	}

	outDir := cfg.Defaults.OutDir
	if flags.outDir != "" {
		outDir = flags.outDir
	}
	mdPath, jsonPath, err := output.WriteReport(outDir, owner, repo, flags.fromRef, flags.toRef, []byte(markdown), jsonData)
	if err != nil {
		reporter.Stop()
		return err
	}

	reporter.Done("Wrote:\n- %s\n- %s", mdPath, jsonPath)
	return nil
}

// applyFlagOverrides copies explicitly set tunable flags over the loaded
// config. Zero means the flag was left at its placeholder default.
func applyFlagOverrides(cfg *config.Config, flags buildFlags) {
	if flags.maxPRFiles > 0 {
		cfg.Report.MaxPRFiles = flags.maxPRFiles
	}
	if flags.summaryMaxChars > 0 {
		cfg.Report.SummaryMaxChars = flags.summaryMaxChars
	}
	if flags.filesShown > 0 {
		cfg.Report.FilesShown = flags.filesShown
	}
	if flags.riskMaxItems > 0 {
		cfg.Report.RiskMaxItems = flags.riskMaxItems
	}
	if flags.commitFallbackMax > 0 {
		cfg.Report.CommitFallbackMax = flags.commitFallbackMax
	}
}

// prNumbers collects the distinct PR numbers associated with the commits,
// from both message references and API lookups, in first-seen order.
func prNumbers(commits []github.Commit, commitPRs map[string]int) []int {
	seen := make(map[int]struct{})
	var numbers []int
	add := func(n int) {
		if n == 0 {
			return
		}
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		numbers = append(numbers, n)
	}

	for _, c := range commits {
		if n := release.ExtractPRNumber(c.Message); n != 0 {
			add(n)
		} else {
			add(commitPRs[c.SHA])
		}
	}
	return numbers
}

// parseRepository parses an owner/repo string into its components.
func parseRepository(repoArg string) (owner, repo string, err error) {
	parts := strings.Split(repoArg, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	owner = strings.TrimSpace(parts[0])
	repo = strings.TrimSpace(parts[1])

	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository format. Expected: <owner>/<repo>, got: %s", repoArg)
	}

	return owner, repo, nil
}
