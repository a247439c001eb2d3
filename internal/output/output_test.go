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

package output

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	relerrors "github.com/relctxhq/relctx/internal/errors"
)

func TestPaths(t *testing.T) {
	tests := []struct {
		name       string
		owner      string
		repo       string
		from, to   string
		wantMDBase string
	}{
		{
			name:  "plain refs",
			owner: "acme", repo: "widgets", from: "v1.0.0", to: "v1.1.0",
			wantMDBase: "release_context_acme_widgets_v1.0.0_to_v1.1.0.md",
		},
		{
			name:  "slash in ref",
			owner: "acme", repo: "widgets", from: "release/2.x", to: "v3.0.0",
			wantMDBase: "release_context_acme_widgets_release-2.x_to_v3.0.0.md",
		},
		{
			name:  "sha refs",
			owner: "acme", repo: "widgets", from: "abc123", to: "def456",
			wantMDBase: "release_context_acme_widgets_abc123_to_def456.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, jsonPath := Paths("out", tt.owner, tt.repo, tt.from, tt.to)
			if filepath.Base(md) != tt.wantMDBase {
				t.Errorf("md = %q, want base %q", md, tt.wantMDBase)
			}
			wantJSON := strings.TrimSuffix(tt.wantMDBase, ".md") + ".json"
			if filepath.Base(jsonPath) != wantJSON {
				t.Errorf("json = %q, want base %q", jsonPath, wantJSON)
			}
			if filepath.Dir(md) != "out" || filepath.Dir(jsonPath) != "out" {
				t.Errorf("artifacts must live directly in the out dir: %q, %q", md, jsonPath)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	mdPath, jsonPath, err := WriteReport(dir, "acme", "widgets", "v1", "v2",
		[]byte("# report\n"), []byte("{}\n"))
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	if string(md) != "# report\n" {
		t.Errorf("markdown content = %q", md)
	}
	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if string(jsonData) != "{}\n" {
		t.Errorf("json content = %q", jsonData)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("out dir has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestWriteReportOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		if _, _, err := WriteReport(dir, "acme", "widgets", "v1", "v2",
			[]byte("# report\n"), []byte("{}\n")); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
}

func TestWriteReportDirCreationFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A regular file where the out dir should go makes MkdirAll fail.
	_, _, err := WriteReport(filepath.Join(blocker, "out"), "acme", "widgets", "v1", "v2",
		[]byte("md"), []byte("{}"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, relerrors.ErrFilesystem) {
		t.Errorf("error %v does not wrap ErrFilesystem", err)
	}
}

func TestWriteReportNoPartialOutput(t *testing.T) {
	dir := t.TempDir()
	mdPath, jsonPath := Paths(dir, "acme", "widgets", "v1", "v2")

	// A directory squatting on the JSON path makes the second rename fail
	// after the Markdown rename already succeeded.
	if err := os.MkdirAll(filepath.Join(jsonPath, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, _, err := WriteReport(dir, "acme", "widgets", "v1", "v2", []byte("md"), []byte("{}"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, relerrors.ErrFilesystem) {
		t.Errorf("error %v does not wrap ErrFilesystem", err)
	}
	if _, statErr := os.Stat(mdPath); !os.IsNotExist(statErr) {
		t.Errorf("markdown artifact left behind after failed run: %v", statErr)
	}
}
