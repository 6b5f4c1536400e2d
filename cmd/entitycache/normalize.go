/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/suparena/entitycache/normalize"
)

func newNormalizeCommand(rootOpts *rootOptions) *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "normalize <data.json|->",
		Short: "Normalize JSON data as the given entity type and print the result",
		Long: `Normalize a JSON record or array of records as an entity type of the catalog.

Prints {"ids": [...], "entities": {"<type>": {"<key>": record}}}. Use "-" to
read the data from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := rootOpts.loadCatalog()
			if err != nil {
				return err
			}
			data, err := readJSON(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			res, err := normalize.NormalizeByName(catalog.Registry(), typeName, data)
			if err != nil {
				return err
			}
			rootOpts.logger.Debug("normalized",
				zap.String("entityType", typeName),
				zap.Int("ids", len(res.IDs)),
				zap.Strings("types", res.Types()))
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "entity type of the top-level data")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

// readJSON decodes path, or stdin for "-", keeping numbers as json.Number.
func readJSON(stdin io.Reader, path string) (any, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open data file: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return data, nil
}
