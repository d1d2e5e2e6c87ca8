package catalog

import (
	"strings"
)

// ContextState describes what the editor can currently supply: the active
// syntax name, the selection size, and how much text surrounds it.
type ContextState struct {
	Syntax    string
	TextChars int
	TextLines int
	PreChars  int
	PostChars int
	PreLines  int
	PostLines int
}

// baseVars are always present in the request variable environment, so an
// endpoint requiring them is satisfiable by every prompt.
var baseVars = map[string]bool{"text": true, "pre": true, "post": true}

// Visible drops prompts hidden from user-facing selection.
func Visible(prompts []*Prompt) []*Prompt {
	out := make([]*Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

// BySyntax keeps prompts that declare no syntax restriction or list the
// current syntax. Matching is case-insensitive.
func BySyntax(prompts []*Prompt, syntax string) []*Prompt {
	out := make([]*Prompt, 0, len(prompts))
	for _, p := range prompts {
		if matchesSyntax(p, syntax) {
			out = append(out, p)
		}
	}
	return out
}

func matchesSyntax(p *Prompt, syntax string) bool {
	if len(p.RequiredSyntax) == 0 {
		return true
	}
	for _, s := range p.RequiredSyntax {
		if strings.EqualFold(s, syntax) {
			return true
		}
	}
	return false
}

// ByContext keeps prompts whose selection and surrounding-context needs
// the editor can satisfy right now.
func ByContext(prompts []*Prompt, state ContextState) []*Prompt {
	out := make([]*Prompt, 0, len(prompts))
	for _, p := range prompts {
		if matchesContext(p, state) {
			out = append(out, p)
		}
	}
	return out
}

func matchesContext(p *Prompt, state ContextState) bool {
	if requiresInput(p, "text") && state.TextChars == 0 {
		return false
	}
	cr := p.RequiredContext
	if cr == nil {
		return true
	}
	pre, post := state.PreChars, state.PostChars
	if cr.Unit == ContextLines {
		pre, post = state.PreLines, state.PostLines
	}
	return pre >= cr.PreSize && post >= cr.PostSize
}

func requiresInput(p *Prompt, name string) bool {
	for _, in := range p.RequiredInputs {
		if in == name {
			return true
		}
	}
	return false
}

// ByAvailableEndpoints keeps prompts at least one catalog endpoint can
// serve.
func ByAvailableEndpoints(prompts []*Prompt, c *Catalog) []*Prompt {
	out := make([]*Prompt, 0, len(prompts))
	for _, p := range prompts {
		if len(EndpointsForPrompt(c, p)) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// SelectPrompts runs every filter pass for the given editor state,
// producing the list actually offered to the user.
func SelectPrompts(c *Catalog, state ContextState) []*Prompt {
	prompts := Visible(c.SortedPrompts())
	prompts = BySyntax(prompts, state.Syntax)
	prompts = ByContext(prompts, state)
	return ByAvailableEndpoints(prompts, c)
}

// EndpointsForPrompt returns the endpoints compatible with a prompt, in
// composite-key order. An endpoint qualifies when:
//   - the prompt's allow-list (if any) names its key, case-insensitively,
//     under either its server id or, for endpoints of an imported server,
//     the base server id;
//   - every key of the prompt's params is accepted by the endpoint's
//     valid_params allow-list;
//   - every variable the endpoint requires is declared by the prompt or is
//     one of the base environment variables.
func EndpointsForPrompt(c *Catalog, p *Prompt) []*Endpoint {
	promptVars := map[string]bool{}
	for _, name := range p.VarNames() {
		promptVars[name] = true
	}

	var out []*Endpoint
	for _, e := range c.SortedEndpoints() {
		if !allowListed(p.RequiredEndpoints, e) {
			continue
		}
		if !paramsAccepted(p.Params, e.ValidParams) {
			continue
		}
		if !varsSatisfied(e.RequiredVars, promptVars) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func allowListed(allowed []string, e *Endpoint) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, entry := range allowed {
		if strings.EqualFold(entry, e.Key()) || strings.EqualFold(entry, e.baseKey()) {
			return true
		}
	}
	return false
}

func paramsAccepted(params Spec, validParams map[string]interface{}) bool {
	for key := range params {
		if _, ok := validParams[key]; !ok {
			return false
		}
	}
	return true
}

func varsSatisfied(required []string, promptVars map[string]bool) bool {
	for _, name := range required {
		if !promptVars[name] && !baseVars[name] {
			return false
		}
	}
	return true
}
