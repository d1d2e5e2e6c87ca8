// Package pathquery implements a small path-addressing language over nested
// maps and sequences, used to extract values from arbitrary decoded JSON
// responses.
//
// A path is a sequence of /-separated segments. Each segment is a literal
// key (quoted when it contains the separator), `*` for all children, or `**`
// for recursive descent, optionally followed by a boolean filter expression
// in brackets:
//
//	choices/*/message/content
//	data/**/text
//	items/*[role == 'assistant']/content
//
// The filter expression is evaluated once per candidate with `_path`,
// `_key`, and `_item` bound, plus the candidate's own fields when it is a
// map (dots in field names replaced by underscores). An expression
// referencing an unbound name excludes that candidate and logs the cause; it
// never aborts the query.
package pathquery

import (
	"sort"
	"strconv"
	"strings"

	"github.com/inkwell-ai/inkwell/logger"
)

// Separator is the path segment separator.
const Separator byte = '/'

// Match is a single query result: the fully-qualified path of the matched
// node and its value.
type Match struct {
	Path  string
	Value interface{}
}

// Query evaluates path expressions against one root document. Compiled
// filter expressions are cached per unique expression string.
type Query struct {
	data  interface{}
	exprs *exprCache
}

// New creates a Query over the given root document.
func New(data interface{}) *Query {
	return &Query{data: data, exprs: newExprCache()}
}

// Find returns all matches for the path, in traversal order. Children of a
// map node are visited in sorted key order so results are deterministic.
func (q *Query) Find(path string) []Match {
	if path == "" || path == "." {
		return []Match{{Path: "", Value: q.data}}
	}
	return q.find(path, q.data, "")
}

// Get returns the value of the first match, or nil when nothing matches.
// Wildcard paths should use Values instead: Get assumes the path addresses a
// single deterministic node.
func (q *Query) Get(path string) interface{} {
	matches := q.Find(path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0].Value
}

// Values returns the matched values only, in traversal order.
func (q *Query) Values(path string) []interface{} {
	matches := q.Find(path)
	values := make([]interface{}, len(matches))
	for i, m := range matches {
		values[i] = m.Value
	}
	return values
}

// Paths returns the fully-qualified paths of all matches.
func (q *Query) Paths(path string) []string {
	matches := q.Find(path)
	paths := make([]string, len(matches))
	for i, m := range matches {
		paths[i] = m.Path
	}
	return paths
}

// Keys returns the final key of each match path.
func (q *Query) Keys(path string) []string {
	matches := q.Find(path)
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = deepestKey(m.Path, Separator)
	}
	return keys
}

// Items returns (final key, value) pairs for all matches.
func (q *Query) Items(path string) []Match {
	matches := q.Find(path)
	items := make([]Match, len(matches))
	for i, m := range matches {
		items[i] = Match{Path: deepestKey(m.Path, Separator), Value: m.Value}
	}
	return items
}

func (q *Query) find(path string, data interface{}, parent string) []Match {
	if data == nil || path == "" {
		return nil
	}
	key, expr, rem := splitSegment(path, Separator)
	return q.findSegment(key, expr, rem, data, parent)
}

func (q *Query) findSegment(key, expr, rem string, data interface{}, parent string) []Match {
	switch key {
	case "*":
		matched := q.matchChildren(data, expr, parent)
		return q.continueInto(matched, rem)
	case "**":
		matched := q.matchChildren(data, expr, parent)
		if rem == "" {
			return matched
		}
		var out []Match
		for _, m := range matched {
			// the remainder may match directly under this child...
			out = append(out, q.find(rem, m.Value, m.Path)...)
			// ...or anywhere deeper in its subtree
			out = append(out, q.findSegment("**", expr, rem, m.Value, m.Path)...)
		}
		return out
	default:
		m, ok := q.lookup(key, expr, data, parent)
		if !ok {
			return nil
		}
		return q.continueInto([]Match{m}, rem)
	}
}

// continueInto applies the remaining path under every match, or returns the
// matches themselves when the path is exhausted.
func (q *Query) continueInto(matched []Match, rem string) []Match {
	if rem == "" {
		return matched
	}
	var out []Match
	for _, m := range matched {
		out = append(out, q.find(rem, m.Value, m.Path)...)
	}
	return out
}

// matchChildren expands every child of data, applying the filter expression
// per candidate.
func (q *Query) matchChildren(data interface{}, expr, parent string) []Match {
	var out []Match
	switch node := data.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			path := joinPath(parent, quoteKey(k, Separator))
			if q.evalFilter(expr, path, k, node[k]) {
				out = append(out, Match{Path: path, Value: node[k]})
			}
		}
	case []interface{}:
		for i, item := range node {
			path := joinPath(parent, strconv.Itoa(i))
			if q.evalFilter(expr, path, i, item) {
				out = append(out, Match{Path: path, Value: item})
			}
		}
	}
	return out
}

// lookup resolves a literal key against a map, falling back to a sequence
// index when the key looks numeric and the container is a sequence.
func (q *Query) lookup(key, expr string, data interface{}, parent string) (Match, bool) {
	switch node := data.(type) {
	case map[string]interface{}:
		item, ok := node[key]
		if !ok {
			return Match{}, false
		}
		path := joinPath(parent, quoteKey(key, Separator))
		if !q.evalFilter(expr, path, key, item) {
			return Match{}, false
		}
		return Match{Path: path, Value: item}, true
	case []interface{}:
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 || index >= len(node) {
			return Match{}, false
		}
		path := joinPath(parent, key)
		if !q.evalFilter(expr, path, index, node[index]) {
			return Match{}, false
		}
		return Match{Path: path, Value: node[index]}, true
	}
	return Match{}, false
}

// evalFilter evaluates a segment's filter expression for one candidate.
// Compile and evaluation failures exclude the candidate and log the cause.
func (q *Query) evalFilter(expr, path string, key, item interface{}) bool {
	if expr == "" {
		return true
	}
	node, err := q.exprs.get(expr)
	if err != nil {
		logger.Warnw("invalid filter expression", "expr", expr, "error", err)
		return false
	}
	scope := map[string]interface{}{
		"_path": path,
		"_key":  key,
		"_item": item,
	}
	if fields, ok := item.(map[string]interface{}); ok {
		for k, v := range fields {
			name := strings.ReplaceAll(k, ".", "_")
			if _, taken := scope[name]; taken {
				continue
			}
			scope[name] = v
		}
	}
	result, err := node.eval(scope)
	if err != nil {
		logger.Debugw("filter expression excluded item", "expr", expr, "path", path, "error", err)
		return false
	}
	return truthy(result)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + string(Separator) + key
}
