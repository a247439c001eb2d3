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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	relerrors "github.com/relctxhq/relctx/internal/errors"
)

func main() {
	// SIGINT/SIGTERM cancel the context; in-flight requests abort and no
	// artifacts are written.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relerrors.ErrMissingToken) ||
		errors.Is(err, relerrors.ErrInvalidToken) ||
		errors.Is(err, relerrors.ErrNotFound) ||
		errors.Is(err, relerrors.ErrRateLimit) {
		return 2 // Authentication/authorization and lookup errors
	}

	if errors.Is(err, relerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
