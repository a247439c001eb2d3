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

package sanitize

import (
	"strings"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "just some text",
			want: "just some text",
		},
		{
			name: "br becomes newline",
			in:   "line one<br>line two<br/>line three",
			want: "line one\nline two\nline three",
		},
		{
			name: "anchor keeps label and url",
			in:   `see <a href="https://example.com/doc">the docs</a> for details`,
			want: "see the docs (https://example.com/doc) for details",
		},
		{
			name: "anchor with empty label falls back to url",
			in:   `<a href="https://example.com"></a>`,
			want: "https://example.com (https://example.com)",
		},
		{
			name: "block closers break lines and other tags vanish",
			in:   "<p>first</p><div>second</div><span>third</span>",
			want: "first\nsecond\nthird",
		},
		{
			name: "entities decoded",
			in:   "a&nbsp;&lt;b&gt;&amp;c",
			want: "a <b>&c",
		},
		{
			name: "blank line runs collapse",
			in:   "top\n\n\n\n\nbottom",
			want: "top\n\nbottom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		if got := Truncate("hello world", 100); got != "hello world" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("cuts at word boundary with marker", func(t *testing.T) {
		in := strings.Repeat("word ", 50)
		got := Truncate(in, 80)
		if !strings.HasSuffix(got, "\n…(truncated)…") {
			t.Fatalf("missing truncation marker: %q", got)
		}
		body := strings.TrimSuffix(got, "\n…(truncated)…")
		if strings.HasSuffix(body, "wor") || strings.HasSuffix(body, "w") {
			t.Errorf("split mid-word: %q", body)
		}
		if len(body) > 80 {
			t.Errorf("body too long: %d chars", len(body))
		}
	})

	t.Run("prefers newline boundary", func(t *testing.T) {
		in := "first line\nsecond line that is rather long and will push past the limit for sure here"
		got := Truncate(in, 60)
		if !strings.Contains(got, "first line") {
			t.Errorf("lost leading content: %q", got)
		}
	})

	t.Run("balances code fences", func(t *testing.T) {
		in := "intro text\n```go\nfunc main() {}\n```\nmore " + strings.Repeat("x ", 100)
		got := Truncate(in, 30)
		if strings.Count(got, "```")%2 != 0 {
			t.Errorf("unbalanced code fence in %q", got)
		}
	})

	t.Run("balances inline backticks", func(t *testing.T) {
		in := "uses `someVeryLongFunctionNameThatKeepsGoingAndGoingForever` in the hot path"
		got := Truncate(in, 20)
		if strings.Count(got, "`")%2 != 0 {
			t.Errorf("unbalanced backticks in %q", got)
		}
	})
}

func TestSummarize(t *testing.T) {
	in := "<p>This PR adds <a href=\"https://example.com\">feature X</a>.</p>" +
		"<p>It also fixes a bug.</p>"
	got := Summarize(in, 700)
	want := "This PR adds feature X (https://example.com).\nIt also fixes a bug."
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
}

func TestExtractBreakingChanges(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		if got := ExtractBreakingChanges(""); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})

	t.Run("heading section", func(t *testing.T) {
		body := "## Breaking Changes\nThe config file format changed from INI to YAML.\n\n## Other\nnothing"
		got := ExtractBreakingChanges(body)
		if len(got) == 0 {
			t.Fatal("expected at least one breaking change")
		}
		if !strings.Contains(got[0], "INI to YAML") {
			t.Errorf("got %q", got[0])
		}
	})

	t.Run("inline mention", func(t *testing.T) {
		body := "Breaking: the Fetch method now requires a context argument everywhere."
		got := ExtractBreakingChanges(body)
		if len(got) == 0 {
			t.Fatal("expected a breaking change")
		}
		if !strings.Contains(got[0], "context argument") {
			t.Errorf("got %q", got[0])
		}
	})

	t.Run("short matches dropped", func(t *testing.T) {
		body := "breaking: none"
		if got := ExtractBreakingChanges(body); len(got) != 0 {
			t.Errorf("got %v, want none", got)
		}
	})

	t.Run("caps at five", func(t *testing.T) {
		var b strings.Builder
		for i := 0; i < 8; i++ {
			b.WriteString("breaking change: something significant happened in subsystem number over here\n\n")
		}
		got := ExtractBreakingChanges(b.String())
		if len(got) > 5 {
			t.Errorf("got %d entries, want at most 5", len(got))
		}
	})
}

func TestExtractKeyInfo(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		info := ExtractKeyInfo("")
		if !info.Empty() {
			t.Errorf("got %+v, want empty", info)
		}
	})

	t.Run("tickets", func(t *testing.T) {
		info := ExtractKeyInfo("Fixes #123 and closes issue 456. See [TICKET-789].")
		want := []string{"123", "456", "789"}
		if len(info.Tickets) != len(want) {
			t.Fatalf("tickets = %v, want %v", info.Tickets, want)
		}
		for i, w := range want {
			if info.Tickets[i] != w {
				t.Errorf("tickets[%d] = %q, want %q", i, info.Tickets[i], w)
			}
		}
	})

	t.Run("related PRs", func(t *testing.T) {
		info := ExtractKeyInfo("Related PR #42. Also touches #7.")
		if len(info.RelatedPRs) != 2 || info.RelatedPRs[0] != 7 || info.RelatedPRs[1] != 42 {
			t.Errorf("related = %v, want [7 42]", info.RelatedPRs)
		}
	})

	t.Run("implausible PR numbers filtered", func(t *testing.T) {
		info := ExtractKeyInfo("see #123456789 for context")
		if len(info.RelatedPRs) != 0 {
			t.Errorf("related = %v, want none", info.RelatedPRs)
		}
	})

	t.Run("deprecation flag", func(t *testing.T) {
		info := ExtractKeyInfo("This deprecates the old endpoint.")
		if !info.HasDeprecation {
			t.Error("expected deprecation flag")
		}
		info = ExtractKeyInfo("Adds a new endpoint.")
		if info.HasDeprecation {
			t.Error("unexpected deprecation flag")
		}
	})
}
