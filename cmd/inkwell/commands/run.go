package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/assistant"
	"github.com/inkwell-ai/inkwell/editor"
	"github.com/inkwell-ai/inkwell/errors"
	"github.com/inkwell-ai/inkwell/internal/httpclient"
)

// RunCmd runs a prompt against a file or stdin.
var RunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a prompt against a file or stdin",
	Long: `Load the given file (or stdin) into a buffer, run a prompt invocation
against the selection, and print the resulting buffer. Unspecified
choices (prompt, endpoint, inputs) are asked interactively.

Examples:
  inkwell run --prompt continue main.go
  inkwell run --prompt translate --input language=spanish notes.md
  cat snippet.py | inkwell run --syntax python`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	RunCmd.Flags().String("prompt", "", "Prompt id to run (asked interactively if empty)")
	RunCmd.Flags().String("endpoint", "", "Endpoint composite id (auto-selected when unambiguous)")
	RunCmd.Flags().StringArray("input", nil, "Resolve a prompt input as key=value (repeatable)")
	RunCmd.Flags().String("syntax", "", "Syntax name of the buffer (default from the file extension)")
	RunCmd.Flags().String("selection", "", "Selection as begin:end rune offsets (default the whole buffer)")
	RunCmd.Flags().BoolP("write", "w", false, "Write the result back to the file instead of stdout")
}

func runRun(cmd *cobra.Command, args []string) error {
	snap, cfg, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	content, err := readContent(path)
	if err != nil {
		return err
	}

	syntax, _ := cmd.Flags().GetString("syntax")
	if syntax == "" {
		syntax = syntaxFor(path)
	}

	buf := editor.NewTextBuffer(content, syntax)
	region, err := parseSelection(cmd, buf)
	if err != nil {
		return err
	}
	buf.Select(region)

	inputs, err := parseInputs(cmd)
	if err != nil {
		return err
	}
	promptID, _ := cmd.Flags().GetString("prompt")
	endpointID, _ := cmd.Flags().GetString("endpoint")

	client := httpclient.New(5 * time.Minute)
	if cfg.AllowLocal {
		client = httpclient.NewLocal(5 * time.Minute)
	}
	runner := &assistant.Runner{
		Snapshot:   snap,
		Transport:  &assistant.HTTPTransport{Client: client},
		Interactor: terminalInteractor{},
	}

	invArgs := assistant.Args{PromptID: promptID, EndpointID: endpointID, Inputs: inputs}
	if err := runner.Run(cmd.Context(), buf, terminalWindow{}, invArgs); err != nil {
		if errors.IsNotFoundError(err) {
			return errors.WithHint(err, "list known prompts and endpoints with 'inkwell prompts' and 'inkwell endpoints'")
		}
		return err
	}

	write, _ := cmd.Flags().GetBool("write")
	if write && path != "" {
		if err := os.WriteFile(path, []byte(buf.String()), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", path)
		}
		pterm.Success.Printf("Wrote %s\n", path)
		return nil
	}
	fmt.Print(buf.String())
	return nil
}

func readContent(path string) (string, error) {
	if path == "" {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Wrap(err, "reading stdin")
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(raw), nil
}

func parseSelection(cmd *cobra.Command, buf *editor.TextBuffer) (editor.Region, error) {
	spec, _ := cmd.Flags().GetString("selection")
	if spec == "" {
		return editor.Region{Begin: 0, End: buf.Size()}, nil
	}
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return editor.Region{}, errors.Newf("invalid selection %q, want begin:end", spec)
	}
	begin, err := strconv.Atoi(parts[0])
	if err != nil {
		return editor.Region{}, errors.Wrapf(err, "invalid selection %q", spec)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return editor.Region{}, errors.Wrapf(err, "invalid selection %q", spec)
	}
	if begin < 0 || end < begin || end > buf.Size() {
		return editor.Region{}, errors.Newf("selection %q out of range for %d characters", spec, buf.Size())
	}
	return editor.Region{Begin: begin, End: end}, nil
}

func parseInputs(cmd *cobra.Command) (map[string]string, error) {
	entries, _ := cmd.Flags().GetStringArray("input")
	if len(entries) == 0 {
		return nil, nil
	}
	inputs := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, found := strings.Cut(entry, "=")
		if !found || key == "" {
			return nil, errors.Newf("invalid input %q, want key=value", entry)
		}
		inputs[key] = value
	}
	return inputs, nil
}

var syntaxByExtension = map[string]string{
	".go":   "Go",
	".py":   "Python",
	".js":   "JavaScript",
	".ts":   "TypeScript",
	".rs":   "Rust",
	".rb":   "Ruby",
	".java": "Java",
	".c":    "C",
	".cpp":  "C++",
	".sh":   "Shell",
	".md":   "Markdown",
	".html": "HTML",
	".css":  "CSS",
	".sql":  "SQL",
	".yaml": "YAML",
	".yml":  "YAML",
	".json": "JSON",
}

func syntaxFor(path string) string {
	if s, ok := syntaxByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return s
	}
	return "Plain Text"
}
