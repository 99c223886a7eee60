package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded payload and may normalize it in place.
type Validator[T any] func(*T) error

// ExtractJSON pulls the first JSON object out of free-form model output and
// decodes it into T. Markdown fences, surrounding prose and // or /* */
// comments are tolerated. validate, when non-nil, runs on the decoded value.
func ExtractJSON[T any](raw string, validate Validator[T]) (T, error) {
	var zero T

	block := firstObject(stripComments(stripFences(raw)))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var out T
	if err := json.Unmarshal([]byte(block), &out); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(&out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// stripFences drops ``` fence lines, keeping what was inside them.
func stripFences(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// scanJSON walks s calling visit for every byte outside string literals.
// visit returns how many extra bytes to skip and whether to stop.
func scanJSON(s string, inString func(i int), visit func(i int) (skip int, stop bool)) {
	quoted, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quoted {
			if inString != nil {
				inString(i)
			}
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				quoted = false
			}
			continue
		}
		if c == '"' {
			quoted = true
			if inString != nil {
				inString(i)
			}
			continue
		}
		skip, stop := visit(i)
		if stop {
			return
		}
		i += skip
	}
}

// firstObject returns the first balanced {...} block in s.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	s = s[start:]

	depth, end := 0, -1
	scanJSON(s, nil, func(i int) (int, bool) {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i
				return 0, true
			}
		}
		return 0, false
	})
	if end == -1 {
		return ""
	}
	return s[:end+1]
}

// stripComments removes // and /* */ comments outside string values.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	scanJSON(s, func(i int) { b.WriteByte(s[i]) }, func(i int) (int, bool) {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "//"):
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				b.WriteByte('\n')
				return nl, false
			}
			return len(rest), false
		case strings.HasPrefix(rest, "/*"):
			if end := strings.Index(rest[2:], "*/"); end >= 0 {
				return end + 3, false
			}
			return len(rest), false
		}
		b.WriteByte(s[i])
		return 0, false
	})
	return b.String()
}
