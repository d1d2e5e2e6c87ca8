package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go.uber.org/zap/zapcore"

	"github.com/inkwell-ai/inkwell/cmd/inkwell/commands"
	"github.com/inkwell-ai/inkwell/logger"
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell - prompt catalog and AI request engine for editors",
	Long: `Inkwell resolves user-configured servers, endpoints, and prompts into a
catalog, renders prompt invocations into API requests, and applies the
parsed responses back to the edited text.

Available commands:
  catalog   - Dump the resolved catalog
  prompts   - List prompts selectable in the current context
  endpoints - List resolved endpoints
  run       - Run a prompt against a file or stdin

Examples:
  inkwell catalog                      # Show the resolved catalog as JSON
  inkwell prompts --syntax go          # Prompts applicable to Go buffers
  inkwell run --prompt continue main.go`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
			logger.SetLevel(zapcore.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().StringSlice("settings", nil,
		"Settings files to load, in override order (default from config)")

	rootCmd.AddCommand(commands.CatalogCmd)
	rootCmd.AddCommand(commands.PromptsCmd)
	rootCmd.AddCommand(commands.EndpointsCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
