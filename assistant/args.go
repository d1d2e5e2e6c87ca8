// Package assistant orchestrates a prompt invocation end to end: resolving
// the prompt's required inputs (suspending for user interaction where
// needed), dispatching the rendered request, and applying the parsed
// result back to the editor or to a waiting parent prompt.
package assistant

// Continuation markers. A frame's marker names which input slot of the
// suspended parent the nested prompt's result is written into: __text_to
// takes the output string directly, __list_to stashes the list result for
// a follow-up pick.
const (
	MarkTextTo = "__text_to"
	MarkListTo = "__list_to"
)

// Frame captures a parent invocation at the point it suspended to resolve
// one input through a nested prompt.
type Frame struct {
	PromptID   string            `json:"prompt_id"`
	EndpointID string            `json:"endpoint_id,omitempty"`
	Inputs     map[string]string `json:"inputs,omitempty"`
	Slot       string            `json:"slot"`
	Marker     string            `json:"marker"`
}

// Args is the accumulated state of one controller invocation. It is
// shaped to serialize cleanly, because every user-interaction suspension
// round-trips the whole state rather than holding it in memory.
type Args struct {
	PromptID   string                `json:"prompt_id,omitempty"`
	EndpointID string                `json:"endpoint_id,omitempty"`
	Inputs     map[string]string     `json:"inputs,omitempty"`
	Lists      map[string][][]string `json:"lists,omitempty"`
	Stack      []Frame               `json:"stack,omitempty"`
}

// WithInput returns a copy with one input slot resolved.
func (a Args) WithInput(name, value string) Args {
	out := a.clone()
	out.Inputs[name] = value
	delete(out.Lists, name)
	return out
}

// Suspend pushes a continuation frame for the current prompt and switches
// to the named sub-prompt with its declared arguments.
func (a Args) Suspend(slot, marker, promptID string, promptArgs map[string]string) Args {
	frame := Frame{
		PromptID:   a.PromptID,
		EndpointID: a.EndpointID,
		Inputs:     copyStrings(a.Inputs),
		Slot:       slot,
		Marker:     marker,
	}
	out := Args{
		PromptID: promptID,
		Inputs:   copyStrings(promptArgs),
		Stack:    append(append([]Frame(nil), a.Stack...), frame),
	}
	if out.Inputs == nil {
		out.Inputs = map[string]string{}
	}
	return out
}

// Resume pops the top frame and feeds the nested result into the parent:
// a text result resolves the slot outright, a list result is parked for
// the user to pick from.
func (a Args) Resume(output string, list [][]string) (Args, bool) {
	if len(a.Stack) == 0 {
		return a, false
	}
	frame := a.Stack[len(a.Stack)-1]
	out := Args{
		PromptID:   frame.PromptID,
		EndpointID: frame.EndpointID,
		Inputs:     copyStrings(frame.Inputs),
		Stack:      append([]Frame(nil), a.Stack[:len(a.Stack)-1]...),
	}
	if out.Inputs == nil {
		out.Inputs = map[string]string{}
	}
	switch frame.Marker {
	case MarkListTo:
		out.Lists = map[string][][]string{frame.Slot: list}
	default:
		out.Inputs[frame.Slot] = output
	}
	return out, true
}

func (a Args) clone() Args {
	out := a
	out.Inputs = copyStrings(a.Inputs)
	if out.Inputs == nil {
		out.Inputs = map[string]string{}
	}
	if a.Lists != nil {
		out.Lists = make(map[string][][]string, len(a.Lists))
		for k, v := range a.Lists {
			out.Lists[k] = v
		}
	}
	out.Stack = append([]Frame(nil), a.Stack...)
	return out
}

func copyStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
