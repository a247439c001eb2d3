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

// Package github provides the GitHub API clients used to build a release
// context. The compare and commit-to-pull-request endpoints are REST only,
// so they go through a small REST client; pull request details and file
// lists come from the GraphQL API, which returns them in a single query.
//
// Both clients share one http.Client whose transport stack adds
// authentication headers and handles rate limit responses by waiting for
// the reset (bounded) before retrying. A RetryClient decorator adds
// exponential backoff for transient network failures on top.
package github
