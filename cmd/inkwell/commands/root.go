// Package commands implements the inkwell CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-ai/inkwell/catalog"
	"github.com/inkwell-ai/inkwell/config"
	"github.com/inkwell-ai/inkwell/errors"
)

// loadCatalog reads the configuration, loads the settings layers, and
// builds the catalog. A --settings flag replaces the configured layers.
func loadCatalog(cmd *cobra.Command) (*catalog.Snapshot, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if paths, _ := cmd.Flags().GetStringSlice("settings"); len(paths) > 0 {
		cfg.Settings = paths
	}

	sources := catalog.LoadSources(cfg.Settings)
	if len(sources) == 0 {
		return nil, nil, errors.Wrapf(errors.ErrConfig,
			"no settings files could be read (looked at %v)", cfg.Settings)
	}

	snap := catalog.NewSnapshot()
	snap.Publish(catalog.Build(sources))
	return snap, cfg, nil
}
