package catalog

import (
	"sort"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/template"
)

// Context units for RequiredContext.
const (
	ContextChars = "chars"
	ContextLines = "lines"
)

// Variable is one named template of a prompt's `vars` block. Templates are
// either a string or a list of strings joined with newlines at render time.
// Variables carry their evaluation order: earlier entries are visible to
// the placeholders of later ones.
type Variable struct {
	Name     string      `json:"name"`
	Template interface{} `json:"template"`
}

// ContextRequirement declares how much surrounding text a prompt needs
// around the selection.
type ContextRequirement struct {
	Unit     string `json:"unit"`
	PreSize  int    `json:"pre_size"`
	PostSize int    `json:"post_size"`
}

// Command declares how a prompt's final output is applied to the view.
type Command struct {
	Cmd                 string `json:"cmd"`
	Syntax              string `json:"syntax,omitempty"`
	StripOutput         bool   `json:"strip_output"`
	NewLineBefore       bool   `json:"new_line_before"`
	NewLineAfter        bool   `json:"new_line_after"`
	PreserveIndentation bool   `json:"preserve_indentation"`
	Placeholder         string `json:"placeholder,omitempty"`
}

// Prompt is a runnable instruction template. It declares the inputs to
// gather, the endpoints it may run on, the variables to derive, and how the
// response is applied back to the editor.
type Prompt struct {
	item

	ID                string              `json:"id"`
	Name              string              `json:"name"`
	Icon              string              `json:"icon"`
	Description       string              `json:"description"`
	Visible           bool                `json:"visible"`
	Inputs            map[string]*Input   `json:"inputs,omitempty"`
	RequiredInputs    []string            `json:"required_inputs"`
	RequiredSyntax    []string            `json:"required_syntax,omitempty"`
	RequiredContext   *ContextRequirement `json:"required_context,omitempty"`
	RequiredEndpoints []string            `json:"required_endpoints,omitempty"`
	Variables         []Variable          `json:"vars"`
	Params            Spec                `json:"params,omitempty"`
	Query             Spec                `json:"query,omitempty"`
	Command           Command             `json:"command"`
}

func newPrompt(spec Spec, ident string) (*Prompt, error) {
	base, err := newItem(spec, ident, "prompt")
	if err != nil {
		return nil, err
	}
	p := &Prompt{item: base}

	if p.ID, err = loadStr(spec, "id", base.ident, base.ident); err != nil {
		return nil, err
	}
	if p.Name, err = loadStr(spec, "name", base.ident, titleFromID(p.ID)); err != nil {
		return nil, err
	}
	if p.Icon, err = loadStr(spec, "icon", base.ident, "✦"); err != nil {
		return nil, err
	}
	if p.Description, err = loadStr(spec, "description", base.ident, p.Name); err != nil {
		return nil, err
	}
	if p.Visible, err = loadBool(spec, "visible", base.ident, true); err != nil {
		return nil, err
	}

	inputs, err := loadSpec(spec, "inputs", base.ident, "")
	if err != nil {
		return nil, err
	}
	p.Inputs = map[string]*Input{}
	for name, rawV := range inputs {
		raw, ok := asSpec(rawV)
		if !ok {
			return nil, errors.NewConfigError("input %q of prompt %q must be an object", name, p.ID)
		}
		in, err := newInput(raw, name, p.ID)
		if err != nil {
			return nil, err
		}
		p.Inputs[name] = in
	}

	if p.RequiredInputs, err = loadStrList(spec, "required_inputs", base.ident); err != nil {
		return nil, err
	}
	if p.RequiredSyntax, err = loadStrList(spec, "required_syntax", base.ident); err != nil {
		return nil, err
	}
	if p.RequiredContext, err = loadContextRequirement(spec, base.ident); err != nil {
		return nil, err
	}
	if p.RequiredEndpoints, err = loadStrList(spec, "required_endpoints", base.ident); err != nil {
		return nil, err
	}

	if p.Variables, err = loadVariables(spec, base.ident); err != nil {
		return nil, err
	}
	if len(p.Variables) == 0 {
		// one passthrough variable per required input, declaration order
		for _, name := range p.RequiredInputs {
			p.Variables = append(p.Variables, Variable{Name: name, Template: "${" + name + "}"})
		}
	}

	if p.Params, err = loadSpec(spec, "params", base.ident, ""); err != nil {
		return nil, err
	}
	if p.Query, err = loadSpec(spec, "query", base.ident, ""); err != nil {
		return nil, err
	}
	if p.Command, err = loadCommand(spec, base.ident); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Prompt) base() *item { return &p.item }

func (p *Prompt) rebuild(spec Spec) (*Prompt, error) {
	merged, err := newPrompt(spec, p.ident)
	if err != nil {
		return nil, err
	}
	merged.item = p.item
	merged.spec = spec
	return merged, nil
}

// VarNames lists the prompt's variable names in evaluation order.
func (p *Prompt) VarNames() []string {
	names := make([]string, 0, len(p.Variables))
	for _, v := range p.Variables {
		names = append(names, v.Name)
	}
	return names
}

// DisplayName renders the prompt's name with the given variables.
func (p *Prompt) DisplayName(vars map[string]string) string {
	return template.Expand(p.Name, vars)
}

func loadContextRequirement(spec Spec, ident string) (*ContextRequirement, error) {
	raw, err := loadSpec(spec, "required_context", ident, "unit")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	cr := &ContextRequirement{}
	if cr.Unit, err = loadStr(raw, "unit", ident, ContextChars); err != nil {
		return nil, err
	}
	if cr.Unit != ContextChars && cr.Unit != ContextLines {
		return nil, errors.NewConfigError("'required_context.unit' must be %q or %q. id=%q", ContextChars, ContextLines, ident)
	}
	if cr.PreSize, err = loadInt(raw, "pre_size", ident, 0); err != nil {
		return nil, err
	}
	if cr.PostSize, err = loadInt(raw, "post_size", ident, 0); err != nil {
		return nil, err
	}
	return cr, nil
}

func loadCommand(spec Spec, ident string) (Command, error) {
	raw, err := loadSpec(spec, "command", ident, "cmd")
	if err != nil {
		return Command{}, err
	}
	cmd := Command{}
	if cmd.Cmd, err = loadStr(raw, "cmd", ident, "replace"); err != nil {
		return Command{}, err
	}
	if cmd.Syntax, err = loadStr(raw, "syntax", ident, ""); err != nil {
		return Command{}, err
	}
	if cmd.StripOutput, err = loadBool(raw, "strip_output", ident, true); err != nil {
		return Command{}, err
	}
	if cmd.NewLineBefore, err = loadBool(raw, "new_line_before", ident, false); err != nil {
		return Command{}, err
	}
	if cmd.NewLineAfter, err = loadBool(raw, "new_line_after", ident, false); err != nil {
		return Command{}, err
	}
	if cmd.PreserveIndentation, err = loadBool(raw, "preserve_indentation", ident, false); err != nil {
		return Command{}, err
	}
	if cmd.Placeholder, err = loadStr(raw, "placeholder", ident, ""); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// loadVariables accepts `vars` either as a list of single-entry objects,
// which fixes the evaluation order explicitly, or as a plain object, whose
// entries are ordered so that a variable referencing another through a
// placeholder is evaluated after it. Ties break alphabetically, which keeps
// rebuilds deterministic.
func loadVariables(spec Spec, ident string) ([]Variable, error) {
	raw, ok := spec["vars"]
	if !ok {
		return nil, nil
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]Variable, 0, len(v))
		for _, entryV := range v {
			entry, ok := asSpec(entryV)
			if !ok || len(entry) != 1 {
				return nil, errors.NewConfigError("'vars' list entries must be single-entry objects. id=%q", ident)
			}
			for name, tmpl := range entry {
				if err := checkVarTemplate(tmpl, name, ident); err != nil {
					return nil, err
				}
				out = append(out, Variable{Name: name, Template: tmpl})
			}
		}
		return out, nil
	default:
		m, ok := asSpec(raw)
		if !ok {
			return nil, errors.NewConfigError("'vars' must be an object or a list. id=%q", ident)
		}
		return orderVariables(m, ident)
	}
}

func checkVarTemplate(tmpl interface{}, name, ident string) error {
	switch t := tmpl.(type) {
	case string:
		return nil
	case []interface{}:
		for _, line := range t {
			if _, ok := line.(string); !ok {
				return errors.NewConfigError("var %q must be a string or a list of strings. id=%q", name, ident)
			}
		}
		return nil
	default:
		return errors.NewConfigError("var %q must be a string or a list of strings. id=%q", name, ident)
	}
}

func orderVariables(m Spec, ident string) ([]Variable, error) {
	refs := map[string][]string{}
	for name, tmpl := range m {
		if err := checkVarTemplate(tmpl, name, ident); err != nil {
			return nil, err
		}
		for _, ref := range varReferences(tmpl) {
			if _, declared := m[ref]; declared && ref != name {
				refs[name] = append(refs[name], ref)
			}
		}
	}

	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Variable, 0, len(m))
	placed := map[string]bool{}
	for len(out) < len(m) {
		progressed := false
		for _, name := range names {
			if placed[name] {
				continue
			}
			ready := true
			for _, ref := range refs[name] {
				if !placed[ref] {
					ready = false
					break
				}
			}
			if ready {
				out = append(out, Variable{Name: name, Template: m[name]})
				placed[name] = true
				progressed = true
			}
		}
		if !progressed {
			// reference cycle: emit the rest alphabetically
			for _, name := range names {
				if !placed[name] {
					out = append(out, Variable{Name: name, Template: m[name]})
					placed[name] = true
				}
			}
		}
	}
	return out, nil
}

func varReferences(tmpl interface{}) []string {
	switch t := tmpl.(type) {
	case string:
		return template.Placeholders(t)
	case []interface{}:
		var refs []string
		for _, line := range t {
			if s, ok := line.(string); ok {
				refs = append(refs, template.Placeholders(s)...)
			}
		}
		return refs
	}
	return nil
}
