package extract

import (
	"regexp"
	"strings"

	"github.com/akozyrev/redflag/internal/model"
)

// maxBalancedCandidates bounds the brace scan on adversarial input
const maxBalancedCandidates = 16

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// introMarkers are phrases models use right before the structured block
var introMarkers = []string{
	"final answer:",
	"result:",
	"json:",
	"output:",
	"here is the json",
}

// parseWhole tries the entire text as one structured object
func parseWhole(raw string) *model.ExtractedPayload {
	payload := decodeObject(strings.TrimSpace(raw))
	if payload == nil || payload.FieldCount() < minPlausibleFields {
		return nil
	}
	return payload
}

// parseFenced looks for a fenced block labelled as structured data
func parseFenced(raw string) *model.ExtractedPayload {
	for _, match := range fencedBlockRe.FindAllStringSubmatch(raw, -1) {
		payload := decodeObject(strings.TrimSpace(match[1]))
		if payload != nil && payload.FieldCount() >= minPlausibleFields {
			return payload
		}
	}
	return nil
}

// parseBalanced scans for balanced-brace spans anywhere in the text and
// accepts the first whose parse looks like the wanted payload. A span
// that merely parses is not enough: short spans are usually incidental.
func parseBalanced(raw string) *model.ExtractedPayload {
	for _, span := range balancedSpans(raw, maxBalancedCandidates) {
		payload := decodeObject(span)
		if payload != nil && payload.FieldCount() >= minPlausibleFields {
			return payload
		}
	}
	return nil
}

// parseAfterMarker slices the text after known introductory markers and
// repeats the balanced scan on the remainder
func parseAfterMarker(raw string) *model.ExtractedPayload {
	lower := strings.ToLower(raw)
	for _, marker := range introMarkers {
		idx := strings.Index(lower, marker)
		if idx < 0 {
			continue
		}
		if payload := parseBalanced(raw[idx+len(marker):]); payload != nil {
			return payload
		}
	}
	return nil
}

// balancedSpans returns up to limit candidate spans, each starting at an
// opening brace and ending at its matching close, string-aware
func balancedSpans(text string, limit int) []string {
	var spans []string
	for start := 0; start < len(text) && len(spans) < limit; start++ {
		if text[start] != '{' {
			continue
		}
		end := matchBrace(text, start)
		if end < 0 {
			// Unclosed object: nothing later can close it either
			break
		}
		spans = append(spans, text[start:end+1])
		start = end
	}
	return spans
}

// matchBrace returns the index of the brace closing text[open], or -1
func matchBrace(text string, open int) int {
	depth := 0
	inString := false
	escaped := false
	for i := open; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
