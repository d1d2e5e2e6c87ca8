package catalog

import (
	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/template"
)

// DefaultTimeout is the request timeout in seconds when a server declares none.
const DefaultTimeout = 60

// Server is a remote service hosting one or more endpoints. Header values
// may reference credentials (`${api_key}` and friends); headers stay as raw
// templates until setCredentials interpolates them during the build.
type Server struct {
	item

	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	URL                 string               `json:"url"`
	Timeout             int                  `json:"timeout"`
	RequiredCredentials []string             `json:"required_credentials"`
	Headers             map[string]string    `json:"headers"`
	Credentials         map[string]string    `json:"-"`
	Endpoints           map[string]*Endpoint `json:"endpoints"`

	rawHeaders map[string]string
}

func newServer(spec Spec) (*Server, error) {
	id, err := loadStr(spec, "id", "", "")
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.NewConfigError("server spec requires an 'id'")
	}
	base, err := newItem(spec, id, "server")
	if err != nil {
		return nil, err
	}
	s := &Server{item: base, ID: id}

	if s.Name, err = loadStr(spec, "name", id, titleFromID(id)); err != nil {
		return nil, err
	}
	if s.URL, err = loadStr(spec, "url", id, ""); err != nil {
		return nil, err
	}
	if s.Timeout, err = loadInt(spec, "timeout", id, DefaultTimeout); err != nil {
		return nil, err
	}
	if s.RequiredCredentials, err = loadStrList(spec, "required_credentials", id); err != nil {
		return nil, err
	}

	headers, err := loadSpec(spec, "headers", id, "")
	if err != nil {
		return nil, err
	}
	s.rawHeaders = stringEntries(headers)
	s.Headers = s.rawHeaders
	s.Credentials = map[string]string{}

	endpoints, err := loadSpec(spec, "endpoints", id, "")
	if err != nil {
		return nil, err
	}
	s.Endpoints = map[string]*Endpoint{}
	for eid, rawV := range endpoints {
		raw, ok := asSpec(rawV)
		if !ok {
			return nil, errors.NewConfigError("endpoint %q of server %q must be an object", eid, id)
		}
		e, err := newEndpoint(raw, eid)
		if err != nil {
			return nil, errors.Wrapf(err, "endpoint %q of server %q", eid, id)
		}
		e.bindServer(s)
		s.Endpoints[e.ID] = e
	}
	return s, nil
}

func (s *Server) base() *item { return &s.item }

func (s *Server) rebuild(spec Spec) (*Server, error) {
	merged, err := newServer(spec)
	if err != nil {
		return nil, err
	}
	merged.item = s.item
	merged.spec = spec
	// rebind so endpoints see the import alias restored above
	for _, e := range merged.Endpoints {
		e.bindServer(merged)
	}
	return merged, nil
}

// HasCredentials reports whether every required credential is present.
func (s *Server) HasCredentials() bool {
	for _, name := range s.RequiredCredentials {
		if s.Credentials[name] == "" {
			return false
		}
	}
	return true
}

// setCredentials records the server's credentials and interpolates them
// into the header templates. Endpoints are rebound so they see the final
// headers.
func (s *Server) setCredentials(creds map[string]string) {
	s.Credentials = map[string]string{}
	for k, v := range creds {
		s.Credentials[k] = v
	}
	s.Headers = template.ExpandMap(s.rawHeaders, s.Credentials)
	for _, e := range s.Endpoints {
		e.bindServer(s)
	}
}
