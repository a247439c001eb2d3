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

// Package main implements the relctx command-line interface.
// The tool compares two refs of a GitHub repository, collects the commits
// and pull requests between them, and writes a release-context report as a
// Markdown file plus a structurally equivalent JSON artifact.
//
// Usage:
//
//	relctx --repo <owner>/<repo> --from <ref> --to <ref> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	relctx --repo golang/go --from go1.21.0 --to go1.22.0 --out-dir ./out
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error, unknown repository or ref,
//     or rate limit exhaustion
//   - 3: Network error
package main
