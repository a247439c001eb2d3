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

package release

import (
	"sort"
	"strings"

	"github.com/relctxhq/relctx/internal/github"
)

// labelGroup maps a report section to the label names that select it.
// Order matters: the first group with a matching label wins.
type labelGroup struct {
	name   string
	labels map[string]struct{}
}

var labelGroups = []labelGroup{
	{"breaking", labelSet("breaking", "breaking-change", "semver-major")},
	{"security", labelSet("security")},
	{"bugfix", labelSet("bug", "bugfix", "fix")},
	{"feature", labelSet("feature", "enhancement")},
	{"performance", labelSet("performance", "perf")},
	{"docs", labelSet("documentation", "docs")},
	{"deps", labelSet("dependencies", "deps")},
	{"chore", labelSet("chore", "maintenance", "refactor")},
	{"test", labelSet("test", "testing")},
}

// SectionOrder is the order report sections appear in, most critical first.
var SectionOrder = []string{
	"breaking", "security", "feature", "bugfix", "performance",
	"deps", "docs", "chore", "test", "other",
}

func labelSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// GroupForLabels picks the report section for a pull request's labels.
// Exact label names are checked first, then substring heuristics, and
// anything unrecognized falls into "other".
func GroupForLabels(labels []string) string {
	lowered := make([]string, 0, len(labels))
	for _, l := range labels {
		lowered = append(lowered, strings.ToLower(l))
	}

	for _, group := range labelGroups {
		for _, l := range lowered {
			if _, ok := group.labels[l]; ok {
				return group.name
			}
		}
	}

	for _, l := range lowered {
		if strings.Contains(l, "break") {
			return "breaking"
		}
	}
	for _, l := range lowered {
		if strings.Contains(l, "fix") || strings.Contains(l, "bug") {
			return "bugfix"
		}
	}
	for _, l := range lowered {
		if strings.Contains(l, "doc") {
			return "docs"
		}
	}
	for _, l := range lowered {
		if strings.Contains(l, "dep") {
			return "deps"
		}
	}
	return "other"
}

// GroupPRs buckets pull requests by section and sorts each bucket by number.
func GroupPRs(prs []*github.PullRequest) map[string][]*github.PullRequest {
	grouped := make(map[string][]*github.PullRequest)
	for _, pr := range prs {
		section := GroupForLabels(pr.Labels)
		grouped[section] = append(grouped[section], pr)
	}
	for _, bucket := range grouped {
		sort.Slice(bucket, func(i, j int) bool { return bucket[i].Number < bucket[j].Number })
	}
	return grouped
}
