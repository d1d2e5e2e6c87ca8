// Package request renders a prompt/endpoint pair plus concrete input values
// into the variable environment, request body, query string, and resource
// path of an HTTP call.
package request

import (
	"net/url"
	"sort"
	"strings"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/logger"
	"github.com/inkwell-ai/inkwell/template"
)

// Rendered is the fully-interpolated request for one invocation.
type Rendered struct {
	Vars     map[string]string
	Body     map[string]interface{}
	Query    string
	Resource string
}

// Render builds the variable environment and interpolates the endpoint's
// templates against it. extra carries the editor-context variables (syntax,
// file path, and friends) plus any user-supplied input values.
func Render(p *catalog.Prompt, e *catalog.Endpoint, text, pre, post string, extra map[string]string) Rendered {
	vars := buildVars(p, text, pre, post, extra)
	body := renderBody(p, e, vars)
	query := renderQuery(p, e, vars)

	resource := template.Expand(e.Resource, vars)
	if query != "" {
		resource += "?" + query
	}

	return Rendered{Vars: vars, Body: body, Query: query, Resource: resource}
}

// buildVars starts from the base environment and evaluates the prompt's
// declared variables in order. Each template sees the environment as
// accumulated so far, so later variables may reference earlier ones.
func buildVars(p *catalog.Prompt, text, pre, post string, extra map[string]string) map[string]string {
	vars := map[string]string{
		"text": text,
		"pre":  pre,
		"post": post,
	}
	for k, v := range extra {
		vars[k] = v
	}

	for _, variable := range p.Variables {
		vars[variable.Name] = template.Expand(variableTemplate(variable), vars)
	}
	return vars
}

// variableTemplate flattens a list-of-lines template into one newline-joined
// string before interpolation.
func variableTemplate(v catalog.Variable) string {
	switch t := v.Template.(type) {
	case string:
		return t
	case []interface{}:
		lines := make([]string, 0, len(t))
		for _, line := range t {
			if s, ok := line.(string); ok {
				lines = append(lines, s)
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}

// renderBody merges the endpoint's request defaults with the prompt's
// params (prompt wins), interpolates every value, and drops any field the
// endpoint's valid_params allow-list does not accept. Dropped fields are a
// configuration smell, not a failure, so they are logged and skipped.
func renderBody(p *catalog.Prompt, e *catalog.Endpoint, vars map[string]string) map[string]interface{} {
	merged := map[string]interface{}{}
	for k, v := range e.Request {
		merged[k] = v
	}
	for k, v := range p.Params {
		merged[k] = v
	}

	body := map[string]interface{}{}
	for k, v := range merged {
		if _, ok := e.ValidParams[k]; !ok {
			logger.Warnw("dropping request field not in valid_params",
				"field", k, "prompt", p.ID, "endpoint", e.Key())
			continue
		}
		body[k] = renderValue(v, vars)
	}
	return body
}

// renderValue interpolates string leaves anywhere inside a body value.
// Non-string scalars (numbers, booleans) pass through untouched.
func renderValue(v interface{}, vars map[string]string) interface{} {
	switch t := v.(type) {
	case string:
		return template.Expand(t, vars)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = renderValue(item, vars)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = renderValue(item, vars)
		}
		return out
	case catalog.Spec:
		return renderValue(map[string]interface{}(t), vars)
	default:
		return v
	}
}

// renderQuery merges endpoint and prompt query fields (prompt wins),
// interpolates, and URL-encodes. Fields are encoded in sorted key order.
func renderQuery(p *catalog.Prompt, e *catalog.Endpoint, vars map[string]string) string {
	merged := map[string]interface{}{}
	for k, v := range e.Query {
		merged[k] = v
	}
	for k, v := range p.Query {
		merged[k] = v
	}
	if len(merged) == 0 {
		return ""
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := url.Values{}
	for _, k := range keys {
		rendered := renderValue(merged[k], vars)
		values.Set(k, template.Stringify(rendered))
	}
	return values.Encode()
}
