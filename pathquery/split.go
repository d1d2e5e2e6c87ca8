package pathquery

import "strings"

// splitSegment separates the head of a path into its literal key, its filter
// expression, and the remainder of the path.
//
// A key may be quoted with single or double quotes when it contains the
// separator. The expression is delimited by a matching [ ] pair; bracket
// depth is tracked so expressions containing brackets are not mis-split.
func splitSegment(path string, sep byte) (key, expr, rem string) {
	if path == "" {
		return "", "", ""
	}
	var b strings.Builder
	var quote byte
	i := 0
	for ; i < len(path); i++ {
		c := path[i]
		if i == 0 && (c == '"' || c == '\'') {
			quote = c
			continue
		}
		if quote != 0 && c == quote {
			i++
			break
		}
		if quote == 0 && (c == sep || c == '[') {
			break
		}
		b.WriteByte(c)
	}
	key = b.String()

	// Expression part, delimited by a balanced [ ] pair.
	if i < len(path) && path[i] == '[' {
		depth := 0
		var e strings.Builder
		for ; i < len(path); i++ {
			c := path[i]
			if c == '[' {
				depth++
				if depth == 1 {
					continue
				}
			}
			if c == ']' {
				depth--
				if depth == 0 {
					i++
					break
				}
			}
			e.WriteByte(c)
		}
		expr = e.String()
	}

	if i < len(path) {
		if path[i] == sep {
			i++
		}
		rem = path[i:]
	}
	return key, expr, rem
}

// quoteKey wraps a key in quotes when it contains the separator, so result
// paths parse back unambiguously.
func quoteKey(key string, sep byte) string {
	if strings.IndexByte(key, sep) >= 0 {
		return "'" + key + "'"
	}
	return key
}

// deepestKey returns the final key of a fully-qualified match path.
func deepestKey(path string, sep byte) string {
	key, _, rem := splitSegment(path, sep)
	for rem != "" {
		key, _, rem = splitSegment(rem, sep)
	}
	return key
}
