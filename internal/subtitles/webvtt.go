// Package subtitles lists subtitle tracks for a video, downloads cue data
// from a timedtext-style API, and renders it as VTT, SRT, or a normalized
// cue table for the generic renderers.
package subtitles

import (
	"strings"

	"skillkit/internal/pipeline"
)

// Cue is a single timestamped subtitle entry. Start and End keep the exact
// timestamp text from the source payload so renders never reformat them.
type Cue struct {
	Start string
	End   string
	Text  string
}

const timestampSeparator = " --> "

// ParseVTT parses a WebVTT payload into an ordered cue list. Cue identifiers
// and NOTE/STYLE/REGION blocks are skipped; timing-line settings after the
// end timestamp are discarded.
func ParseVTT(payload string) ([]Cue, error) {
	payload = strings.TrimPrefix(payload, "\uFEFF")
	lines := strings.Split(strings.ReplaceAll(payload, "\r\n", "\n"), "\n")

	if len(lines) == 0 || !strings.HasPrefix(lines[0], "WEBVTT") {
		return nil, pipeline.SchemaViolation("payload is not a WebVTT document")
	}

	var cues []Cue
	i := 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		// Skip blanks, comments, and non-cue blocks
		if line == "" {
			i++
			continue
		}
		if strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "REGION") {
			i = skipBlock(lines, i)
			continue
		}

		// A cue identifier line precedes the timing line
		if !strings.Contains(line, timestampSeparator) {
			i++
			if i >= len(lines) || !strings.Contains(lines[i], timestampSeparator) {
				return nil, pipeline.SchemaViolation("cue %q has no timing line", line)
			}
			line = strings.TrimSpace(lines[i])
		}

		start, end, err := parseTiming(line)
		if err != nil {
			return nil, err
		}

		var text []string
		for i++; i < len(lines); i++ {
			t := strings.TrimSpace(lines[i])
			if t == "" {
				break
			}
			text = append(text, t)
		}

		cues = append(cues, Cue{Start: start, End: end, Text: strings.Join(text, "\n")})
	}

	if len(cues) == 0 {
		return nil, pipeline.SchemaViolation("WebVTT document contains no cues")
	}
	return cues, nil
}

// skipBlock advances past a block and its following blank line.
func skipBlock(lines []string, i int) int {
	for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		i++
	}
	return i
}

// parseTiming splits "start --> end [settings]" keeping timestamps verbatim.
func parseTiming(line string) (string, string, error) {
	parts := strings.SplitN(line, timestampSeparator, 2)
	if len(parts) != 2 {
		return "", "", pipeline.SchemaViolation("malformed cue timing line %q", line)
	}
	start := strings.TrimSpace(parts[0])
	end := strings.TrimSpace(parts[1])
	if idx := strings.IndexAny(end, " \t"); idx >= 0 {
		end = end[:idx]
	}
	if start == "" || end == "" {
		return "", "", pipeline.SchemaViolation("malformed cue timing line %q", line)
	}
	return start, end, nil
}
