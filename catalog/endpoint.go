package catalog

import (
	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/template"
)

// DefaultMethod is used when an endpoint spec omits `method`.
const DefaultMethod = "POST"

// ResponseSpec declares how an endpoint's decoded response body is parsed:
// a path expression per output key, a final output template, and an optional
// per-item template for list results.
type ResponseSpec struct {
	Paths    map[string]string `json:"paths"`
	Output   string            `json:"output"`
	ListItem interface{}       `json:"list_item,omitempty"` // string or list of row columns
}

// Endpoint is a callable remote operation on a Server. It is only
// addressable once bound to its owning server: the server-derived fields
// stay empty until bindServer runs during the catalog build.
type Endpoint struct {
	item

	ID           string                 `json:"eid"`
	Name         string                 `json:"name"`
	Icon         string                 `json:"icon"`
	Method       string                 `json:"method"`
	Resource     string                 `json:"resource"`
	RequiredVars []string               `json:"required_vars"`
	ValidParams  map[string]interface{} `json:"valid_params"`
	Request      map[string]interface{} `json:"request"`
	Query        map[string]interface{} `json:"query"`
	Response     *ResponseSpec          `json:"response"`

	// server-derived fields, populated by bindServer
	SID         string            `json:"sid"`
	SIDBase     string            `json:"sid_base"`
	ServerName  string            `json:"server_name"`
	URL         string            `json:"url"`
	Timeout     int               `json:"timeout"`
	Credentials map[string]string `json:"-"`
	Headers     map[string]string `json:"headers"`
}

func newEndpoint(spec Spec, ident string) (*Endpoint, error) {
	base, err := newItem(spec, ident, "endpoint")
	if err != nil {
		return nil, err
	}
	e := &Endpoint{item: base}

	if e.ID, err = loadStr(spec, "id", base.ident, base.ident); err != nil {
		return nil, err
	}
	if e.Name, err = loadStr(spec, "name", base.ident, titleFromID(e.ID)); err != nil {
		return nil, err
	}
	if e.Icon, err = loadStr(spec, "icon", base.ident, "↯"); err != nil {
		return nil, err
	}
	if e.Method, err = loadStr(spec, "method", base.ident, DefaultMethod); err != nil {
		return nil, err
	}
	if e.Resource, err = loadStr(spec, "resource", base.ident, ""); err != nil {
		return nil, err
	}
	if e.RequiredVars, err = loadStrList(spec, "required_vars", base.ident); err != nil {
		return nil, err
	}

	validParams, err := loadSpec(spec, "valid_params", base.ident, "")
	if err != nil {
		return nil, err
	}
	e.ValidParams = validParams

	request, err := loadSpec(spec, "request", base.ident, "")
	if err != nil {
		return nil, err
	}
	e.Request = request

	query, err := loadSpec(spec, "query", base.ident, "")
	if err != nil {
		return nil, err
	}
	e.Query = query

	if e.Response, err = loadResponseSpec(spec, base.ident); err != nil {
		return nil, err
	}
	return e, nil
}

// loadResponseSpec normalizes the response declaration. The legacy shape
// without `paths` maps its `error`/`output` entries to path expressions;
// `text` and `error` paths and the `output` template get defaults so every
// declared response can render.
func loadResponseSpec(spec Spec, ident string) (*ResponseSpec, error) {
	raw, err := loadSpec(spec, "response", ident, "")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	rs := &ResponseSpec{Paths: map[string]string{}}
	if pathsV, ok := raw["paths"]; ok {
		paths, ok := asSpec(pathsV)
		if !ok {
			return nil, errors.NewConfigError("'response.paths' must be an object. id=%q", ident)
		}
		for k, v := range paths {
			path, ok := v.(string)
			if !ok {
				return nil, errors.NewConfigError("'response.paths.%s' must be a string. id=%q", k, ident)
			}
			rs.Paths[k] = path
		}
	} else {
		// legacy shape: top-level error/output entries are path expressions
		errPath, _ := loadStr(raw, "error", ident, "error")
		textPath, _ := loadStr(raw, "output", ident, "data")
		rs.Paths["error"] = errPath
		rs.Paths["text"] = textPath
		rs.Output = "${text}"
	}

	if _, ok := rs.Paths["text"]; !ok {
		rs.Paths["text"] = "data"
	}
	if _, ok := rs.Paths["error"]; !ok {
		rs.Paths["error"] = "error"
	}
	if rs.Output == "" {
		if rs.Output, err = loadStr(raw, "output", ident, "${text}"); err != nil {
			return nil, err
		}
	}

	if templatesV, ok := raw["templates"]; ok {
		templates, ok := asSpec(templatesV)
		if !ok {
			return nil, errors.NewConfigError("'response.templates' must be an object. id=%q", ident)
		}
		rs.ListItem = templates["list_item"]
	}
	return rs, nil
}

// bindServer populates the server-derived fields. An endpoint bound through
// an imported server also records the base server id, so allow-lists naming
// the base still match.
func (e *Endpoint) bindServer(s *Server) {
	e.SID = s.ID
	e.SIDBase = s.ID
	if from, ok := s.importSpec["from"].(string); ok && from != "" {
		e.SIDBase = from
	}
	e.ServerName = s.Name
	e.URL = s.URL
	e.Timeout = s.Timeout
	e.Credentials = s.Credentials
	e.Headers = s.Headers
}

// Key is the composite catalog identifier "<server_id>/<endpoint_id>".
func (e *Endpoint) Key() string {
	return e.SID + "/" + e.ID
}

// baseKey is the composite identifier under the imported base server id.
func (e *Endpoint) baseKey() string {
	return e.SIDBase + "/" + e.ID
}

// DisplayName renders the endpoint's name with the given variables.
func (e *Endpoint) DisplayName(vars map[string]string) string {
	return template.Expand(e.Name, vars)
}
