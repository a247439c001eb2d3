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

// Package sanitize turns HTML-heavy pull request bodies into readable
// plain-text snippets for the report, and mines them for structured hints
// (breaking changes, ticket references, deprecations).
package sanitize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	brTag         = regexp.MustCompile(`(?i)<\s*br\s*/?\s*>`)
	blockCloseTag = regexp.MustCompile(`(?i)</\s*(?:p|div|li|h\d)\s*>`)
	anchorTag     = regexp.MustCompile(`(?is)<\s*a[^>]*href="([^"]+)"[^>]*>(.*?)</\s*a\s*>`)
	anyTag        = regexp.MustCompile(`<[^>]+>`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// StripHTML performs a basic HTML to plain text conversion:
// anchors become "label (url)", <br> and block closers become newlines,
// every other tag is removed, and common entities are decoded.
func StripHTML(text string) string {
	t := brTag.ReplaceAllString(text, "\n")
	t = blockCloseTag.ReplaceAllString(t, "\n")
	t = anchorTag.ReplaceAllStringFunc(t, func(m string) string {
		sub := anchorTag.FindStringSubmatch(m)
		url := strings.TrimSpace(sub[1])
		label := strings.TrimSpace(sub[2])
		if label == "" {
			label = url
		}
		return label + " (" + url + ")"
	})
	t = anyTag.ReplaceAllString(t, "")

	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
	)
	t = replacer.Replace(t)

	t = strings.ReplaceAll(t, "\r\n", "\n")
	t = blankLines.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

// Truncate cuts text at a sensible boundary without breaking words or code
// fences: it prefers the last newline or sentence end before the limit and
// balances backticks so a snippet never leaves Markdown formatting open.
func Truncate(text string, maxChars int) string {
	t := strings.TrimSpace(text)
	if len(t) <= maxChars {
		return t
	}

	cutoff := maxChars
	prefix := t[:cutoff]
	candidate := strings.LastIndex(prefix, "\n")
	if dot := strings.LastIndex(prefix, ". "); dot > candidate {
		candidate = dot
	}
	if space := strings.LastIndex(prefix, " "); space > candidate {
		candidate = space
	}
	if candidate > maxChars/2 {
		cutoff = candidate
	}
	// Never split a multi-byte rune at the fallback cutoff.
	for cutoff > 0 && !isRuneStart(t[cutoff]) {
		cutoff--
	}

	snip := strings.TrimRight(t[:cutoff], " \t\n")
	if strings.Count(snip, "```")%2 == 1 {
		snip += "\n```"
	}
	if strings.Count(snip, "`")%2 == 1 {
		snip += "`"
	}
	return snip + "\n…(truncated)…"
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// Summarize converts a PR body to plain text and truncates it for display.
func Summarize(text string, maxChars int) string {
	cleaned := StripHTML(text)
	cleaned = blankLines.ReplaceAllString(cleaned, "\n\n")
	return Truncate(cleaned, maxChars)
}

var breakingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:breaking changes?|breaking)[\s:]+(.*?)(?:\n\n|\n#|$)`),
	regexp.MustCompile(`(?is)###\s*breaking[^#]*(.*?)(?:###|$)`),
	regexp.MustCompile(`(?is)##\s*breaking[^#]*(.*?)(?:##|$)`),
}

// ExtractBreakingChanges pulls breaking-change snippets out of a PR body.
// Very short matches are noise and are dropped; at most 5 are returned.
func ExtractBreakingChanges(text string) []string {
	if text == "" {
		return nil
	}

	var breaking []string
	for _, pat := range breakingPatterns {
		for _, match := range pat.FindAllStringSubmatch(text, -1) {
			content := match[1]
			if content == "" {
				continue
			}
			cleaned := StripHTML(content)
			cleaned = strings.TrimSpace(blankLines.ReplaceAllString(cleaned, "\n\n"))
			if len(cleaned) > 20 {
				breaking = append(breaking, Truncate(cleaned, 300))
			}
		}
	}

	if len(breaking) > 5 {
		breaking = breaking[:5]
	}
	return breaking
}

// KeyInfo holds structured references mined from a PR body.
type KeyInfo struct {
	Tickets        []string `json:"tickets,omitempty"`
	RelatedPRs     []int    `json:"related_prs,omitempty"`
	HasDeprecation bool     `json:"has_deprecation,omitempty"`
}

// Empty reports whether no key information was found.
func (k KeyInfo) Empty() bool {
	return len(k.Tickets) == 0 && len(k.RelatedPRs) == 0 && !k.HasDeprecation
}

var (
	ticketPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:ticket|issue|fixes?|closes?|resolves?)[\s:]+#?(\d+)`),
		regexp.MustCompile(`(?i)\[?ticket[-\s]?(\d+)\]?`),
	}
	relatedPRPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:related|see|refs?)[\s:]+(?:pr|pull request)[\s:]+#?(\d+)`),
		regexp.MustCompile(`#(\d+)`),
	}
	deprecationPattern = regexp.MustCompile(`(?i)\b(?:deprecat\w*|obsolete|removed?|removal)\b`)
)

// maxPlausiblePRNumber filters out hash-prefixed numbers that are clearly
// not PR references (issue IDs from other trackers, hex fragments).
const maxPlausiblePRNumber = 100000

// ExtractKeyInfo mines a PR body for ticket numbers, related pull requests,
// and deprecation mentions.
func ExtractKeyInfo(text string) KeyInfo {
	var info KeyInfo
	if text == "" {
		return info
	}

	tickets := make(map[string]struct{})
	for _, pat := range ticketPatterns {
		for _, match := range pat.FindAllStringSubmatch(text, -1) {
			tickets[match[1]] = struct{}{}
		}
	}
	for ticket := range tickets {
		info.Tickets = append(info.Tickets, ticket)
	}
	sort.Strings(info.Tickets)

	related := make(map[int]struct{})
	for _, pat := range relatedPRPatterns {
		for _, match := range pat.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(match[1]); err == nil && n < maxPlausiblePRNumber {
				related[n] = struct{}{}
			}
		}
	}
	for n := range related {
		info.RelatedPRs = append(info.RelatedPRs, n)
	}
	sort.Ints(info.RelatedPRs)

	info.HasDeprecation = deprecationPattern.MatchString(text)

	return info
}
