// Package response parses a decoded response body through an endpoint's
// declared response paths into the result map an invocation hands back.
package response

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/logger"
	"github.com/inkwell-ai/inkwell/pathquery"
	"github.com/inkwell-ai/inkwell/template"
)

// Parse extracts the declared output keys from the decoded body. Missing
// keys produce a synthesized error entry but never discard the keys that
// did resolve: callers get a partial result, not nothing. The original
// body always rides along under "response" for diagnostics.
func Parse(raw interface{}, e *catalog.Endpoint) map[string]interface{} {
	rs := e.Response
	if rs == nil {
		return map[string]interface{}{
			"error":    "endpoint declares no response template",
			"response": raw,
		}
	}

	q := pathquery.New(raw)
	result := map[string]interface{}{}
	var missing []string

	keys := make([]string, 0, len(rs.Paths))
	for key := range rs.Paths {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path := rs.Paths[key]
		var value interface{}
		if strings.Contains(path, "*") {
			matches := q.Values(path)
			if len(matches) > 0 {
				value = matches
			}
		} else {
			value = q.Get(path)
		}
		if value == nil {
			if key != "error" {
				missing = append(missing, fmt.Sprintf("no value for %q at path %q", key, path))
			}
			continue
		}
		result[key] = value
	}

	if len(missing) > 0 {
		if _, ok := result["error"]; !ok {
			result["error"] = strings.Join(missing, "; ")
		}
		logger.Debugw("response keys missing", "endpoint", e.Key(), "missing", missing)
	}

	liftVars(result)

	result["output"] = template.Expand(rs.Output, template.StringView(result))

	if list, ok := result["list"].([]interface{}); ok {
		result["list"] = renderList(list, rs.ListItem)
	}

	result["response"] = raw
	return result
}

// liftVars promotes scalar entries of a resolved "vars" map to top-level
// string entries, so the output template can reference them directly. A
// lifted name colliding with an existing key gets a leading underscore.
func liftVars(result map[string]interface{}) {
	vars, ok := result["vars"].(map[string]interface{})
	if !ok {
		return
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, ok := template.ScalarString(vars[name])
		if !ok {
			continue
		}
		key := name
		if _, taken := result[key]; taken {
			key = "_" + name
		}
		result[key] = value
	}
}

// renderList turns a resolved list into display rows. A string list_item
// template yields one column per item; a list of templates yields one
// column per template. Items without a usable template, or non-map items,
// fall back to their stringified form.
func renderList(list []interface{}, listItem interface{}) [][]string {
	rows := make([][]string, 0, len(list))
	for _, item := range list {
		rows = append(rows, renderRow(item, listItem))
	}
	return rows
}

func renderRow(item, listItem interface{}) []string {
	view, isMap := mapView(item)
	if !isMap || listItem == nil {
		return []string{template.Stringify(item)}
	}
	switch tmpl := listItem.(type) {
	case string:
		return []string{template.Expand(tmpl, view)}
	case []interface{}:
		row := make([]string, 0, len(tmpl))
		for _, colV := range tmpl {
			if col, ok := colV.(string); ok {
				row = append(row, template.Expand(col, view))
			}
		}
		if len(row) > 0 {
			return row
		}
	}
	return []string{template.Stringify(item)}
}

func mapView(item interface{}) (map[string]string, bool) {
	switch m := item.(type) {
	case map[string]interface{}:
		return template.StringView(m), true
	case catalog.Spec:
		return template.StringView(m), true
	}
	return nil, false
}
