package catalog

import (
	"sort"
	"time"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/logger"
)

// Source is one named settings layer contributing servers, prompts, and
// credentials. Later sources override earlier ones item by item, so a user
// layer can redefine an entry a packaged layer shipped.
type Source struct {
	Name string
	Data Spec
}

// Catalog is the merged, import-resolved view of every source. Endpoints
// are flattened under their composite "<server_id>/<endpoint_id>" key.
type Catalog struct {
	Servers   map[string]*Server
	Endpoints map[string]*Endpoint
	Prompts   map[string]*Prompt
	BuiltAt   time.Time
}

// Build assembles a catalog from the given sources. Invalid items are
// logged and skipped rather than failing the whole build: one bad entry in
// a user's settings must not take down every other prompt.
func Build(sources []Source) *Catalog {
	servers := map[string]*Server{}
	prompts := map[string]*Prompt{}
	credentials := Spec{}

	for _, src := range sources {
		for _, key := range []string{"default_servers", "servers"} {
			for _, entry := range collectionEntries(src.Data, key, src.Name) {
				s, err := newServer(entry.spec)
				if err != nil {
					logger.Warnw("skipping invalid server", "source", src.Name, "id", entry.ident, "error", err)
					continue
				}
				servers[s.ID] = s
			}
		}
		for _, key := range []string{"default_prompts", "prompts"} {
			for _, entry := range collectionEntries(src.Data, key, src.Name) {
				p, err := newPrompt(entry.spec, entry.ident)
				if err != nil {
					logger.Warnw("skipping invalid prompt", "source", src.Name, "id", entry.ident, "error", err)
					continue
				}
				prompts[p.ident] = p
			}
		}
		if raw, ok := asSpec(src.Data["credentials"]); ok {
			for k, v := range raw {
				credentials[k] = copyValue(v)
			}
		}
	}

	resolveImports(servers)
	dropFailedImports(servers)
	resolveImports(prompts)
	dropFailedImports(prompts)

	applyCredentials(servers, credentials)

	endpoints := map[string]*Endpoint{}
	for _, s := range servers {
		for _, e := range s.Endpoints {
			endpoints[e.Key()] = e
		}
	}

	return &Catalog{
		Servers:   servers,
		Endpoints: endpoints,
		Prompts:   prompts,
		BuiltAt:   time.Now(),
	}
}

// applyCredentials resolves each server's required credentials and
// dismisses servers left without one. A credential resolves first from a
// per-server sub-object keyed by the server id, then from the flat
// credential map.
func applyCredentials(servers map[string]*Server, credentials Spec) {
	for id, s := range servers {
		if err := missingCredential(s, credentials); err != nil {
			logger.Infow("dismissing server", "server", id, "error", err)
			delete(servers, id)
			continue
		}
		creds := make(map[string]string, len(s.RequiredCredentials))
		for _, name := range s.RequiredCredentials {
			creds[name] = credentialFor(credentials, id, name)
		}
		s.setCredentials(creds)
	}
}

// missingCredential reports the first required credential the settings do
// not provide for the server.
func missingCredential(s *Server, credentials Spec) error {
	for _, name := range s.RequiredCredentials {
		if credentialFor(credentials, s.ID, name) == "" {
			return errors.Wrapf(errors.ErrCredential, "server %s requires credential %q", s.ID, name)
		}
	}
	return nil
}

func credentialFor(credentials Spec, serverID, name string) string {
	if sub, ok := asSpec(credentials[serverID]); ok {
		if v, ok := sub[name].(string); ok && v != "" {
			return v
		}
	}
	if v, ok := credentials[name].(string); ok {
		return v
	}
	return ""
}

type collectionEntry struct {
	ident string
	spec  Spec
}

// collectionEntries reads an item collection declared either as a list of
// objects (ident from each entry's `id`) or as an object keyed by ident.
// Object collections are returned in sorted key order.
func collectionEntries(data Spec, key, sourceName string) []collectionEntry {
	raw, ok := data[key]
	if !ok || raw == nil {
		return nil
	}
	var out []collectionEntry
	switch v := raw.(type) {
	case []interface{}:
		for _, entryV := range v {
			entry, ok := asSpec(entryV)
			if !ok {
				logger.Warnw("skipping non-object collection entry", "source", sourceName, "collection", key)
				continue
			}
			ident, _ := entry["id"].(string)
			out = append(out, collectionEntry{ident: ident, spec: entry})
		}
	default:
		m, ok := asSpec(raw)
		if !ok {
			logger.Warnw("collection is neither a list nor an object", "source", sourceName, "collection", key)
			return nil
		}
		idents := make([]string, 0, len(m))
		for ident := range m {
			idents = append(idents, ident)
		}
		sort.Strings(idents)
		for _, ident := range idents {
			entry, ok := asSpec(m[ident])
			if !ok {
				logger.Warnw("skipping non-object collection entry", "source", sourceName, "collection", key, "id", ident)
				continue
			}
			if _, has := entry["id"]; !has {
				entry = copySpec(entry)
				entry["id"] = ident
			}
			out = append(out, collectionEntry{ident: ident, spec: entry})
		}
	}
	return out
}

// Endpoint looks up an endpoint by its composite key.
func (c *Catalog) Endpoint(key string) (*Endpoint, bool) {
	e, ok := c.Endpoints[key]
	return e, ok
}

// Prompt looks up a prompt by ident.
func (c *Catalog) Prompt(id string) (*Prompt, bool) {
	p, ok := c.Prompts[id]
	return p, ok
}

// SortedPrompts returns the prompts ordered by ident.
func (c *Catalog) SortedPrompts() []*Prompt {
	ids := make([]string, 0, len(c.Prompts))
	for id := range c.Prompts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Prompt, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.Prompts[id])
	}
	return out
}

// SortedEndpoints returns the endpoints ordered by composite key.
func (c *Catalog) SortedEndpoints() []*Endpoint {
	keys := make([]string, 0, len(c.Endpoints))
	for key := range c.Endpoints {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]*Endpoint, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.Endpoints[key])
	}
	return out
}
