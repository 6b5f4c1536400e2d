/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/entitycache/config"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose bool
	Catalog string

	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "entitycache",
		Short: "Normalize nested entity graphs into per-type tables",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.Verbose)
			if err != nil {
				return fmt.Errorf("failed to build logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose (debug) logging")
	cmd.PersistentFlags().StringVarP(&opts.Catalog, "catalog", "c", "catalog.yaml", "catalog of entity types")

	cmd.AddCommand(newNormalizeCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newSaveCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// newLogger builds a development logger when verbose, a production logger otherwise.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.OutputPaths = []string{"stderr"}
		return cfg.Build()
	}
	return zap.NewProduction()
}

func (o *rootOptions) loadCatalog() (*config.Catalog, error) {
	catalog, err := config.Load(o.Catalog)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("catalog loaded", zap.String("path", o.Catalog), zap.Int("types", len(catalog.Types)))
	return catalog, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
