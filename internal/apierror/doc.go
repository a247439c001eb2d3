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

// Package apierror classifies errors returned by the GitHub API into the
// categories that drive retry decisions and exit codes. Classification
// prefers typed errors in the chain and falls back to message matching,
// since the GraphQL library surfaces API failures as plain strings.
package apierror
