package editor

import (
	"strings"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/errors"
)

// Output commands.
const (
	CmdReplace = "replace"
	CmdPrepend = "prepend"
	CmdAppend  = "append"
	CmdInsert  = "insert"
	CmdOutput  = "output"
	CmdCreate  = "create"
)

// OutputPanel is the panel name used by the `output` command.
const OutputPanel = "assistant"

// DefaultPlaceholder is the token `insert` replaces when the command
// declares no placeholder of its own.
const DefaultPlaceholder = "XXX"

// ApplyOutput executes a prompt's output command against the view: the
// edit commands rewrite text around the region, `output` routes to a
// window panel, and `create` opens a new file.
func ApplyOutput(v View, w Window, r Region, cmd catalog.Command, output string) error {
	text := prepareOutput(v, r, cmd, output)

	switch cmd.Cmd {
	case CmdReplace, "":
		v.Replace(r, text)
	case CmdPrepend:
		v.Insert(r.Begin, text)
	case CmdAppend:
		v.Insert(r.End, text)
	case CmdInsert:
		insertAtPlaceholder(v, r, cmd.Placeholder, text)
	case CmdOutput:
		if w == nil {
			return errors.New("output command requires a window")
		}
		return w.ShowOutput(OutputPanel, text)
	case CmdCreate:
		if w == nil {
			return errors.New("create command requires a window")
		}
		return w.NewFile(text, cmd.Syntax)
	default:
		return errors.Newf("unknown output command %q", cmd.Cmd)
	}
	return nil
}

// insertAtPlaceholder replaces the first occurrence of the placeholder
// token inside the region with the output text. A region without the
// token is left untouched.
func insertAtPlaceholder(v View, r Region, placeholder, text string) {
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	region := []rune(v.Substr(r))
	token := []rune(placeholder)
	pos := runeIndex(region, token)
	if pos < 0 {
		return
	}
	v.Replace(Region{Begin: r.Begin + pos, End: r.Begin + pos + len(token)}, text)
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if string(haystack[i:i+len(needle)]) == string(needle) {
			return i
		}
	}
	return -1
}

// prepareOutput applies the command's text adjustments in a fixed order:
// strip, indentation, then surrounding newlines.
func prepareOutput(v View, r Region, cmd catalog.Command, output string) string {
	text := output
	if cmd.StripOutput {
		text = strings.TrimSpace(text)
	}
	if cmd.PreserveIndentation {
		indent := LineIndentation(v, r)
		if indent != "" {
			text = strings.ReplaceAll(text, "\n", "\n"+indent)
		}
	}
	if cmd.NewLineBefore {
		text = "\n" + text
	}
	if cmd.NewLineAfter {
		text += "\n"
	}
	return text
}
