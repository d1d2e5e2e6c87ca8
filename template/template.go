// Package template provides ${name} string interpolation for user-authored
// configuration. Request bodies, query strings, resource paths, headers, and
// response output templates are all rendered through Expand.
//
// Substitution contract: every occurrence of a placeholder whose name is
// present in the variable environment is replaced by the string form of its
// value. Placeholders naming undefined variables are left untouched, so a
// template can survive partial environments without losing information.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// placeholderPattern matches ${name}, where name is an identifier that may
// contain dots (response vars lifted from nested payloads keep their dots).
var placeholderPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_.]*)\}`)

// Expand replaces every ${name} placeholder in s with vars[name].
// Unknown names are left as-is.
func Expand(s string, vars map[string]string) string {
	if s == "" || len(vars) == 0 {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

// ExpandLines joins lines with newlines and expands the result. Configuration
// values may be written as a list of strings for readability.
func ExpandLines(lines []string, vars map[string]string) string {
	return Expand(strings.Join(lines, "\n"), vars)
}

// ExpandMap expands every value of m against vars, returning a new map.
func ExpandMap(m map[string]string, vars map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Expand(v, vars)
	}
	return out
}

// Placeholders returns the placeholder names referenced by s, in order of
// first appearance.
func Placeholders(s string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var names []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Stringify coerces an arbitrary decoded value to its string form for
// interpolation. Maps and slices render as compact JSON.
func Stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// JSON numbers decode as float64; render integral values without
		// a trailing ".0" so ids and counts survive round trips.
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", v)
	}
}

// ScalarString coerces v to its string form when it is a scalar value.
// Maps, slices, and nil report false.
func ScalarString(v interface{}) (string, bool) {
	switch v.(type) {
	case nil, map[string]interface{}, []interface{}:
		return "", false
	}
	return Stringify(v), true
}

// StringView returns the scalar entries of m coerced to strings, dropping
// nested maps and slices. Used to build the string-only environment a
// template is rendered against.
func StringView(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			continue
		}
		out[k] = Stringify(v)
	}
	return out
}

// CoerceStrings coerces every entry of m to a string, including nested
// structures (rendered as JSON).
func CoerceStrings(m map[string]interface{}) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = Stringify(v)
	}
	return out
}
