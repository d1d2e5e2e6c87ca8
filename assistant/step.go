package assistant

import (
	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/errors"
)

// SuspensionKind names what the controller is waiting on.
type SuspensionKind int

const (
	SuspendPickPrompt SuspensionKind = iota
	SuspendPickEndpoint
	SuspendAskText
	SuspendPickList
)

// Suspension describes one pending user interaction. The controller is
// re-entered with the answer folded into Args.
type Suspension struct {
	Kind        SuspensionKind
	Args        Args
	Slot        string
	Caption     string
	Placeholder string
	Prompts     []*catalog.Prompt
	Endpoints   []*catalog.Endpoint
	Options     [][]string
	Values      []string
}

// Plan is a fully-resolved invocation ready to dispatch.
type Plan struct {
	Prompt   *catalog.Prompt
	Endpoint *catalog.Endpoint
	Args     Args
}

// Step advances the controller as far as it can without user interaction:
// it selects the prompt, walks required inputs in order, recurses into
// sub-prompts for *_from_prompt inputs by pushing a continuation frame,
// and selects the endpoint. It returns either a dispatchable plan or the
// next suspension.
func Step(c *catalog.Catalog, state catalog.ContextState, args Args) (*Plan, *Suspension, error) {
	for {
		if args.PromptID == "" {
			prompts := catalog.SelectPrompts(c, state)
			if len(prompts) == 0 {
				return nil, nil, errors.Wrap(errors.ErrNotFound, "no prompts available for the current context")
			}
			return nil, &Suspension{Kind: SuspendPickPrompt, Args: args, Prompts: prompts}, nil
		}

		p, ok := c.Prompt(args.PromptID)
		if !ok {
			return nil, nil, errors.Wrapf(errors.ErrNotFound, "prompt %q", args.PromptID)
		}

		susp, recursed, err := resolveInputs(p, &args)
		if err != nil {
			return nil, nil, err
		}
		if susp != nil {
			return nil, susp, nil
		}
		if recursed {
			// switched to a sub-prompt; resolve it from the top
			continue
		}

		e, susp, err := selectEndpoint(c, p, args)
		if err != nil || susp != nil {
			return nil, susp, err
		}
		return &Plan{Prompt: p, Endpoint: e, Args: args}, nil, nil
	}
}

// resolveInputs finds the first unresolved required input and produces the
// interaction that resolves it. The literal input name "text" is the live
// selection and never walked here. Reports recursed=true when it switched
// args to a nested prompt instead of suspending.
func resolveInputs(p *catalog.Prompt, args *Args) (*Suspension, bool, error) {
	for _, name := range p.RequiredInputs {
		if name == "text" {
			continue
		}
		if _, done := args.Inputs[name]; done {
			continue
		}

		// a parked list result from a nested prompt resolves this slot
		// through one more pick
		if rows, pending := args.Lists[name]; pending {
			values := make([]string, len(rows))
			for i, row := range rows {
				if len(row) > 0 {
					values[i] = row[0]
				}
			}
			return &Suspension{
				Kind:    SuspendPickList,
				Args:    *args,
				Slot:    name,
				Caption: captionFor(p, name),
				Options: rows,
				Values:  values,
			}, false, nil
		}

		in := p.Inputs[name]
		if in == nil {
			return &Suspension{
				Kind:    SuspendAskText,
				Args:    *args,
				Slot:    name,
				Caption: titleCaption(name),
			}, false, nil
		}

		switch in.Type {
		case catalog.InputText:
			return &Suspension{
				Kind:        SuspendAskText,
				Args:        *args,
				Slot:        name,
				Caption:     in.Caption,
				Placeholder: in.Placeholder,
			}, false, nil
		case catalog.InputList:
			rows := make([][]string, len(in.Items))
			values := make([]string, len(in.Items))
			for i, item := range in.Items {
				rows[i] = []string{item.Label}
				values[i] = item.Value
			}
			return &Suspension{
				Kind:    SuspendPickList,
				Args:    *args,
				Slot:    name,
				Caption: in.Caption,
				Options: rows,
				Values:  values,
			}, false, nil
		case catalog.InputTextFromPrompt:
			*args = args.Suspend(name, MarkTextTo, in.PromptID, in.PromptArgs)
			return nil, true, nil
		case catalog.InputListFromPrompt:
			*args = args.Suspend(name, MarkListTo, in.PromptID, in.PromptArgs)
			return nil, true, nil
		default:
			return nil, false, errors.Newf("input %q of prompt %q has unknown type %q", name, p.ID, in.Type)
		}
	}
	return nil, false, nil
}

// selectEndpoint auto-selects when exactly one endpoint is compatible and
// asks the user when several are.
func selectEndpoint(c *catalog.Catalog, p *catalog.Prompt, args Args) (*catalog.Endpoint, *Suspension, error) {
	if args.EndpointID != "" {
		e, ok := c.Endpoint(args.EndpointID)
		if !ok {
			return nil, nil, errors.Wrapf(errors.ErrNotFound, "endpoint %q", args.EndpointID)
		}
		return e, nil, nil
	}

	endpoints := catalog.EndpointsForPrompt(c, p)
	switch len(endpoints) {
	case 0:
		return nil, nil, errors.Wrapf(errors.ErrNotFound, "no endpoints can serve prompt %q", p.ID)
	case 1:
		return endpoints[0], nil, nil
	default:
		return nil, &Suspension{Kind: SuspendPickEndpoint, Args: args, Endpoints: endpoints}, nil
	}
}

func captionFor(p *catalog.Prompt, name string) string {
	if in := p.Inputs[name]; in != nil {
		return in.Caption
	}
	return titleCaption(name)
}

func titleCaption(name string) string {
	out := []rune(name)
	for i, r := range out {
		if i == 0 && r >= 'a' && r <= 'z' {
			out[i] = r - ('a' - 'A')
		}
		if r == '_' {
			out[i] = ' '
		}
	}
	return string(out)
}
