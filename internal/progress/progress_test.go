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

package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestReporterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)

	r.Phase("fetching commits for %s", "acme/widgets")
	r.Warnf("commit %s has no PR", "abc1234")
	r.Done("wrote 2 artifacts")

	out := buf.String()
	for _, want := range []string{
		"fetching commits for acme/widgets\n",
		"warning: commit abc1234 has no PR\n",
		"wrote 2 artifacts\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReporterDoneWithoutMessage(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Phase("working")
	r.Done("")
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("Done(\"\") should print nothing, got %q", buf.String())
	}
}

func TestReporterStopIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Stop()
	r.Stop()
	if buf.Len() != 0 {
		t.Errorf("Stop printed %q", buf.String())
	}
}
