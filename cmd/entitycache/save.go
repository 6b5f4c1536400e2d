/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suparena/entitycache/config"
	"github.com/suparena/entitycache/datastore/ddb"
	"github.com/suparena/entitycache/storagemodels"
)

func newSaveCommand(rootOpts *rootOptions) *cobra.Command {
	var (
		envFile string
		table   string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Seed a store from the catalog and save it to DynamoDB",
		Long: `Seed a store from the catalog and save it to DynamoDB as a new snapshot.

Settings are read from the environment and the --env file:
  AWS_ACCESS_KEY, AWS_SECRET_KEY  static credentials (default chain when unset)
  AWS_REGION                      region
  AWS_DDB_TABLE                   table, overridden by --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.LoadEnv(envFile)
			if err != nil {
				return err
			}
			if table != "" {
				env.Table = table
			}
			if err := env.Validate(); err != nil {
				return err
			}

			store, err := buildStore(rootOpts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			ds, err := ddb.NewDynamodbDataStore[storagemodels.TableItem](ctx, env.AccessKey, env.SecretKey, env.Region, env.Table)
			if err != nil {
				return err
			}
			ds.WithLogger(rootOpts.logger)

			snapshotID, err := store.Save(ctx, ds)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), snapshotID)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env", ".env", "file to load environment variables from")
	cmd.Flags().StringVar(&table, "table", "", "DynamoDB table (default $AWS_DDB_TABLE)")
	return cmd
}
