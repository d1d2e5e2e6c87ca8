package commands

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// EndpointsCmd lists resolved endpoints.
var EndpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List resolved endpoints",
	Long: `List every endpoint of every server that survived credential
resolution, with its composite id and request shape.`,
	RunE: runEndpoints,
}

func runEndpoints(cmd *cobra.Command, args []string) error {
	snap, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	c := snap.Catalog()

	endpoints := c.SortedEndpoints()
	if len(endpoints) == 0 {
		pterm.Warning.Println("No endpoints available (missing credentials?)")
		return nil
	}

	rows := pterm.TableData{{"ID", "Name", "Method", "URL", "Timeout"}}
	for _, e := range endpoints {
		rows = append(rows, []string{
			e.Key(),
			e.Name,
			e.Method,
			e.URL + e.Resource,
			strconv.Itoa(e.Timeout) + "s",
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
