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

// Package output writes the report artifacts to disk. Both artifacts are
// staged as temporary files and renamed into place together, so a failed
// run never leaves a partial report behind.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	relerrors "github.com/relctxhq/relctx/internal/errors"
)

// unsafeRefChars matches characters that cannot appear in artifact
// filenames. Refs like "release/2.x" would otherwise create subdirectories.
var unsafeRefChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeRef makes a ref safe for use in a filename.
func sanitizeRef(ref string) string {
	return unsafeRefChars.ReplaceAllString(ref, "-")
}

// Paths returns the deterministic artifact paths for a comparison.
func Paths(outDir, owner, repo, fromRef, toRef string) (mdPath, jsonPath string) {
	base := fmt.Sprintf("release_context_%s_%s_%s_to_%s",
		sanitizeRef(owner), sanitizeRef(repo), sanitizeRef(fromRef), sanitizeRef(toRef))
	return filepath.Join(outDir, base+".md"), filepath.Join(outDir, base+".json")
}

// WriteReport writes both artifacts. On any failure nothing is left at the
// final paths: temp files are cleaned up and an already-renamed artifact is
// removed again.
func WriteReport(outDir, owner, repo, fromRef, toRef string, markdown, jsonData []byte) (mdPath, jsonPath string, err error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory %s: %v: %w", outDir, err, relerrors.ErrFilesystem)
	}

	mdPath, jsonPath = Paths(outDir, owner, repo, fromRef, toRef)

	mdTmp, err := stageFile(outDir, markdown)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(mdTmp)

	jsonTmp, err := stageFile(outDir, jsonData)
	if err != nil {
		return "", "", err
	}
	defer os.Remove(jsonTmp)

	if err := os.Rename(mdTmp, mdPath); err != nil {
		return "", "", fmt.Errorf("rename %s: %v: %w", mdPath, err, relerrors.ErrFilesystem)
	}
	if err := os.Rename(jsonTmp, jsonPath); err != nil {
		os.Remove(mdPath)
		return "", "", fmt.Errorf("rename %s: %v: %w", jsonPath, err, relerrors.ErrFilesystem)
	}
	return mdPath, jsonPath, nil
}

// stageFile writes data to a temporary file in dir and returns its path.
// The file is synced before close so a rename never publishes partial data.
func stageFile(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".release_context_*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %v: %w", dir, err, relerrors.ErrFilesystem)
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("write %s: %v: %w", name, err, relerrors.ErrFilesystem)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", fmt.Errorf("sync %s: %v: %w", name, err, relerrors.ErrFilesystem)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("close %s: %v: %w", name, err, relerrors.ErrFilesystem)
	}
	return name, nil
}
