package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is stamped by the build.
var Version = "dev"

// VersionCmd prints the inkwell version.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the inkwell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inkwell %s\n", Version)
	},
}
