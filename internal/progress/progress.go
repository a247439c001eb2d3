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

// Package progress shows fetch progress on stderr. Artifact content goes to
// files, so everything here is advisory and never touches stdout.
package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Reporter shows spinner phases while the tool talks to the API. On a
// non-terminal stderr it degrades to plain log lines so CI output stays
// readable.
type Reporter struct {
	out     io.Writer
	spinner *spinner.Spinner
	active  bool
}

// New builds a Reporter writing to out. isTerminal selects between an
// animated spinner and plain lines.
func New(out io.Writer, isTerminal bool) *Reporter {
	r := &Reporter{out: out}
	if isTerminal {
		r.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(out))
	}
	return r
}

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// Phase starts a new labeled phase, replacing any previous one.
func (r *Reporter) Phase(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.spinner == nil {
		fmt.Fprintln(r.out, msg)
		return
	}
	if r.active {
		r.spinner.Stop()
	}
	r.spinner.Suffix = " " + msg
	r.spinner.Start()
	r.active = true
}

// Done stops the spinner and optionally prints a final line.
func (r *Reporter) Done(format string, args ...any) {
	if r.spinner != nil && r.active {
		r.spinner.Stop()
		r.active = false
	}
	if format != "" {
		fmt.Fprintf(r.out, format+"\n", args...)
	}
}

// Stop halts any running spinner without printing.
func (r *Reporter) Stop() {
	if r.spinner != nil && r.active {
		r.spinner.Stop()
		r.active = false
	}
}

// Warnf prints a warning line, pausing the spinner so lines don't collide.
func (r *Reporter) Warnf(format string, args ...any) {
	if r.spinner != nil && r.active {
		r.spinner.Stop()
	}
	fmt.Fprintf(r.out, "warning: "+format+"\n", args...)
	if r.spinner != nil && r.active {
		r.spinner.Start()
	}
}

// Write implements io.Writer so fetch helpers can emit their own warning
// lines through the reporter. The spinner pauses around the write.
func (r *Reporter) Write(p []byte) (int, error) {
	if r.spinner != nil && r.active {
		r.spinner.Stop()
	}
	n, err := r.out.Write(p)
	if r.spinner != nil && r.active {
		r.spinner.Start()
	}
	return n, err
}
