/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"github.com/spf13/cobra"

	"github.com/suparena/entitycache"
)

func newSeedCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Build a store from the catalog's seed data and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildStore(rootOpts)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), store)
		},
	}
}

func buildStore(rootOpts *rootOptions) (*entitycache.Store, error) {
	catalog, err := rootOpts.loadCatalog()
	if err != nil {
		return nil, err
	}
	return catalog.BuildStore(entitycache.WithLogger(rootOpts.logger))
}
