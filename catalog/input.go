package catalog

import (
	"fmt"

	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/template"
)

// Input kinds. The *_from_prompt kinds source their value by running
// another prompt first and capturing its output.
const (
	InputText           = "text"
	InputList           = "list"
	InputTextFromPrompt = "text_from_prompt"
	InputListFromPrompt = "list_from_prompt"
)

// ListOption is one selectable entry of a list input.
type ListOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Input declares one user-supplied value a prompt needs before it can run.
type Input struct {
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Caption     string       `json:"caption"`
	Description string       `json:"description"`
	Placeholder string       `json:"placeholder"`
	Items       []ListOption `json:"items,omitempty"`

	// for *_from_prompt kinds
	PromptID   string            `json:"prompt_id,omitempty"`
	PromptArgs map[string]string `json:"prompt_args,omitempty"`
}

func newInput(spec Spec, name, promptID string) (*Input, error) {
	ctx := fmt.Sprintf("input %q of prompt %q", name, promptID)
	in := &Input{Name: name}

	var err error
	if in.Type, err = loadStr(spec, "type", ctx, InputText); err != nil {
		return nil, err
	}
	if in.Caption, err = loadStr(spec, "caption", ctx, titleFromID(name)); err != nil {
		return nil, err
	}
	if in.Description, err = loadStr(spec, "description", ctx, in.Caption); err != nil {
		return nil, err
	}
	if in.Placeholder, err = loadStr(spec, "placeholder", ctx, ""); err != nil {
		return nil, err
	}

	switch in.Type {
	case InputText:
	case InputList:
		rawItems, ok := spec["items"].([]interface{})
		if !ok || len(rawItems) == 0 {
			return nil, errors.NewConfigError("%s: list inputs require a non-empty 'items' list", ctx)
		}
		for _, rawV := range rawItems {
			switch v := rawV.(type) {
			case string:
				in.Items = append(in.Items, ListOption{Label: v, Value: v})
			default:
				entry, ok := asSpec(rawV)
				if !ok {
					return nil, errors.NewConfigError("%s: list items must be strings or objects", ctx)
				}
				value, err := loadStr(entry, "value", ctx, "")
				if err != nil {
					return nil, err
				}
				label, err := loadStr(entry, "label", ctx, value)
				if err != nil {
					return nil, err
				}
				in.Items = append(in.Items, ListOption{Label: label, Value: value})
			}
		}
	case InputTextFromPrompt, InputListFromPrompt:
		if in.PromptID, err = loadStr(spec, "prompt_id", ctx, ""); err != nil {
			return nil, err
		}
		if in.PromptID == "" {
			return nil, errors.NewConfigError("%s: %s inputs require a 'prompt_id'", ctx, in.Type)
		}
		args, err := loadSpec(spec, "prompt_args", ctx, "")
		if err != nil {
			return nil, err
		}
		if len(args) > 0 {
			in.PromptArgs = map[string]string{}
			for k, v := range args {
				s, ok := v.(string)
				if !ok {
					return nil, errors.NewConfigError("%s: 'prompt_args' values must be strings", ctx)
				}
				in.PromptArgs[k] = s
			}
		}
	default:
		return nil, errors.NewConfigError("%s: unknown input type %q", ctx, in.Type)
	}
	return in, nil
}

// Render expands variables in the caption and placeholder, for display.
func (in *Input) Render(vars map[string]string) (caption, placeholder string) {
	return template.Expand(in.Caption, vars), template.Expand(in.Placeholder, vars)
}
