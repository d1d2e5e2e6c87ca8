package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/errors"
)

// terminalInteractor answers controller suspensions with pterm's
// interactive widgets.
type terminalInteractor struct{}

func (terminalInteractor) PickPrompt(prompts []*catalog.Prompt) (string, error) {
	options := make([]string, len(prompts))
	for i, p := range prompts {
		options[i] = fmt.Sprintf("%s %s (%s)", p.Icon, p.Name, p.ID)
	}
	idx, err := pick("Select a prompt", options)
	if err != nil {
		return "", err
	}
	return prompts[idx].ID, nil
}

func (terminalInteractor) PickEndpoint(endpoints []*catalog.Endpoint) (string, error) {
	options := make([]string, len(endpoints))
	for i, e := range endpoints {
		options[i] = fmt.Sprintf("%s (%s)", e.Name, e.Key())
	}
	idx, err := pick("Select an endpoint", options)
	if err != nil {
		return "", err
	}
	return endpoints[idx].Key(), nil
}

func (terminalInteractor) AskText(caption, placeholder string) (string, error) {
	input := pterm.DefaultInteractiveTextInput
	if placeholder != "" {
		input = *input.WithDefaultValue(placeholder)
	}
	return input.Show(caption)
}

func (terminalInteractor) PickList(caption string, rows [][]string) (int, error) {
	options := make([]string, len(rows))
	for i, row := range rows {
		options[i] = strings.Join(row, "  |  ")
	}
	return pick(caption, options)
}

func (terminalInteractor) Progress(message string) {
	pterm.Info.Println(message)
}

func pick(label string, options []string) (int, error) {
	selected, err := pterm.DefaultInteractiveSelect.WithOptions(options).Show(label)
	if err != nil {
		return 0, err
	}
	for i, option := range options {
		if option == selected {
			return i, nil
		}
	}
	return 0, errors.Newf("selection %q not among options", selected)
}

// terminalWindow stands in for the editor window: panels and new files
// both land on the terminal.
type terminalWindow struct{}

func (terminalWindow) NewFile(content, syntax string) error {
	pterm.DefaultHeader.Printf("New file (%s)", syntax)
	pterm.Println()
	fmt.Println(content)
	return nil
}

func (terminalWindow) ShowOutput(name, content string) error {
	pterm.DefaultSection.Println(name)
	fmt.Println(content)
	return nil
}
