package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CatalogCmd dumps the resolved catalog.
var CatalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Dump the resolved catalog as JSON",
	Long: `Load the settings layers, resolve imports and credentials, and print
the resulting catalog. Useful for checking what a settings change
actually produced.`,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	snap, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	raw, err := snap.Dump()
	if err != nil {
		return err
	}
	fmt.Println(string(raw))
	return nil
}
