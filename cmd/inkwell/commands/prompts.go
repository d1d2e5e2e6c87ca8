package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/catalog"
)

// PromptsCmd lists prompts.
var PromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List prompts selectable in the current context",
	Long: `List the prompts the catalog would offer. By default the user-facing
filters apply: hidden prompts, prompts for other syntaxes, and prompts
without a compatible endpoint are omitted. --all lists everything.`,
	RunE: runPrompts,
}

func init() {
	PromptsCmd.Flags().String("syntax", "", "Filter prompts by syntax name")
	PromptsCmd.Flags().Bool("all", false, "List every prompt, unfiltered")
}

func runPrompts(cmd *cobra.Command, args []string) error {
	snap, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	c := snap.Catalog()

	all, _ := cmd.Flags().GetBool("all")
	syntax, _ := cmd.Flags().GetString("syntax")

	var prompts []*catalog.Prompt
	if all {
		prompts = c.SortedPrompts()
	} else {
		// assume a workable selection; only the syntax filter depends on
		// flags here
		prompts = catalog.SelectPrompts(c, catalog.ContextState{
			Syntax:    syntax,
			TextChars: 1,
			PreChars:  1 << 20,
			PostChars: 1 << 20,
			PreLines:  1 << 20,
			PostLines: 1 << 20,
		})
	}

	if len(prompts) == 0 {
		pterm.Warning.Println("No prompts available")
		return nil
	}

	rows := pterm.TableData{{"ID", "Name", "Endpoints", "Required inputs"}}
	for _, p := range prompts {
		endpoints := make([]string, 0, 2)
		for _, e := range catalog.EndpointsForPrompt(c, p) {
			endpoints = append(endpoints, e.Key())
		}
		rows = append(rows, []string{
			p.ID,
			p.Icon + " " + p.Name,
			strings.Join(endpoints, ", "),
			strings.Join(p.RequiredInputs, ", "),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
