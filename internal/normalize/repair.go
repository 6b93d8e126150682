package normalize

import "strings"

// RepairJSON rewrites near-JSON produced by language models into JSON.
// Bare object keys are quoted and trailing commas before a closing bracket
// or brace are dropped. Text inside double-quoted strings is never touched.
func RepairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	escaped := false
	// last non-space byte written outside a string
	var last byte
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				last = c
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == ',':
			if next := nextNonSpace(s, i+1); next < len(s) && (s[next] == ']' || s[next] == '}') {
				continue
			}
			b.WriteByte(c)
			last = c
		case isIdentStart(c):
			end := i + 1
			for end < len(s) && isIdentPart(s[end]) {
				end++
			}
			word := s[i:end]
			if next := nextNonSpace(s, end); next < len(s) && s[next] == ':' && (last == '{' || last == ',') {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
				last = '"'
			} else {
				b.WriteString(word)
				last = word[len(word)-1]
			}
			i = end - 1
		default:
			b.WriteByte(c)
			if !isSpace(c) {
				last = c
			}
		}
	}
	return b.String()
}

func nextNonSpace(s string, from int) int {
	for from < len(s) && isSpace(s[from]) {
		from++
	}
	return from
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
