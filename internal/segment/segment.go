// Package segment splits normalized document text into candidate request
// segments, each assumed to express at most one discrete business request.
package segment

import (
	"regexp"
	"strings"
)

// minLength is the shortest segment considered meaningful; shorter fragments
// are dropped before the whole-text fallback applies.
const minLength = 20

var (
	blankLine = regexp.MustCompile(`\n[ \t]*\n+`)

	// marker matches a multi-request discourse marker at the start of a
	// sentence: group 1 is the preceding boundary, group 2 the marker word.
	marker = regexp.MustCompile(`(?i)([.!?;]\s+|\n\s*)(additionally|also|furthermore)[,\s]`)
)

// Split breaks text into non-empty request segments. Boundaries are blank
// lines and sentence-initial discourse markers (Additionally, Also,
// Furthermore). Segments at or under the minimum meaningful length are
// dropped; when nothing survives, the trimmed original text is returned as
// a single segment. Pure and deterministic. Empty input yields nil.
func Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var candidates []string
	for _, para := range blankLine.Split(normalized, -1) {
		candidates = append(candidates, splitMarkers(para)...)
	}

	segments := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if len(c) > minLength {
			segments = append(segments, c)
		}
	}

	if len(segments) == 0 {
		return []string{strings.TrimSpace(normalized)}
	}

	return segments
}

func splitMarkers(part string) []string {
	locs := marker.FindAllStringSubmatchIndex(part, -1)
	if len(locs) == 0 {
		return []string{part}
	}

	out := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		cut := loc[4] // start of the marker word
		if cut > prev {
			out = append(out, part[prev:cut])
		}
		prev = cut
	}
	out = append(out, part[prev:])

	return out
}
