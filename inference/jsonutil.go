package inference

import (
	"encoding/json"
	"strings"
)

// ExtractJSON parses a best-effort JSON object or array out of raw model
// output and unmarshals it into v. Model responses are routinely wrapped in
// markdown fences, followed by commentary, or truncated mid-object, so the
// strategies run in order of increasing aggressiveness:
//
//  1. direct parse of the trimmed text
//  2. fenced-block extraction (```json ... ```)
//  3. balanced-bracket scan from the first { or [
//  4. trailing-comma repair
//  5. truncation completion: close unbalanced brackets and drop a partial
//     trailing key/value pair
//
// Returns false when nothing parseable could be recovered; v is untouched
// in that case.
func ExtractJSON(text string, v interface{}) bool {
	for _, cand := range jsonCandidates(text) {
		if cand == "" {
			continue
		}
		if tryUnmarshal(cand, v) {
			return true
		}
		if repaired := stripTrailingCommas(cand); repaired != cand && tryUnmarshal(repaired, v) {
			return true
		}
		if completed := completeTruncated(cand); completed != "" && tryUnmarshal(completed, v) {
			return true
		}
	}
	return false
}

func tryUnmarshal(s string, v interface{}) bool {
	// Validate against a throwaway first so a failed attempt cannot leave
	// v half-populated.
	var probe interface{}
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return false
	}
	return json.Unmarshal([]byte(s), v) == nil
}

func jsonCandidates(text string) []string {
	text = strings.TrimSpace(text)
	candidates := []string{text}

	if fenced := extractFenced(text); fenced != "" {
		candidates = append(candidates, fenced)
	}
	if scanned := balancedSlice(text); scanned != "" {
		candidates = append(candidates, scanned)
	}
	return candidates
}

// extractFenced returns the body of the first markdown code fence
func extractFenced(text string) string {
	start := strings.Index(text, "```")
	if start < 0 {
		return ""
	}
	rest := text[start+3:]
	// Skip an optional language tag on the fence line
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 && nl < 20 {
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

// balancedSlice returns the substring from the first { or [ through its
// matching close bracket. When the brackets never balance (truncated
// output) it returns everything from the opener to the end so the
// truncation-completion pass can work on it.
func balancedSlice(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{' || ch == '[':
			depth++
		case ch == '}' || ch == ']':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}

// stripTrailingCommas removes commas that directly precede a closing
// bracket, a common model mistake
func stripTrailingCommas(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			out.WriteByte(ch)
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			out.WriteByte(ch)
			continue
		}
		if ch == '"' {
			inString = !inString
			out.WriteByte(ch)
			continue
		}
		if ch == ',' && !inString {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue // drop the comma
			}
		}
		out.WriteByte(ch)
	}
	return out.String()
}

// completeTruncated tries to turn output cut off mid-object into valid
// JSON: close an unterminated string, close unbalanced brackets, and if
// that still fails, cut back through the last complete element and retry.
func completeTruncated(s string) string {
	s = strings.TrimRight(s, " \t\n\r")
	for attempt := 0; attempt < 8; attempt++ {
		fixed := closeBrackets(s)
		var probe interface{}
		if json.Unmarshal([]byte(fixed), &probe) == nil {
			return fixed
		}
		cut := lastTopLevelComma(s)
		if cut <= 0 {
			return ""
		}
		s = strings.TrimRight(s[:cut], " \t\n\r")
	}
	return ""
}

// closeBrackets appends whatever closers the input is missing
func closeBrackets(s string) string {
	var stack []byte
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			stack = append(stack, '}')
		case ch == '[':
			stack = append(stack, ']')
		case ch == '}' || ch == ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if inString {
		s += `"`
	}
	s = strings.TrimRight(s, " \t\n\r")
	if strings.HasSuffix(s, ",") {
		s = s[:len(s)-1]
	}
	if strings.HasSuffix(s, ":") {
		s += "null"
	}
	for i := len(stack) - 1; i >= 0; i-- {
		s += string(stack[i])
	}
	return s
}

// lastTopLevelComma finds the last comma outside any string literal
func lastTopLevelComma(s string) int {
	last := -1
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case ch == ',' && !inString:
			last = i
		}
	}
	return last
}
