/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	ecerrors "github.com/suparena/entitycache/errors"
)

// Environment variables read by LoadEnv
const (
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
	EnvRegion    = "AWS_REGION"
	EnvTable     = "AWS_DDB_TABLE"
)

// Env holds the DynamoDB settings used to persist snapshots.
type Env struct {
	AccessKey string
	SecretKey string
	Region    string
	Table     string
}

// LoadEnv loads the given .env files (".env" when none are given) into the
// process environment and reads the DynamoDB settings. Variables already set
// take precedence and missing files are ignored.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Env{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return Env{
		AccessKey: os.Getenv(EnvAccessKey),
		SecretKey: os.Getenv(EnvSecretKey),
		Region:    os.Getenv(EnvRegion),
		Table:     os.Getenv(EnvTable),
	}, nil
}

// Validate requires a region and a table. Credentials may come from the
// default AWS chain instead.
func (e Env) Validate() error {
	if e.Region == "" {
		return ecerrors.NewValidationError(EnvRegion, "region is required")
	}
	if e.Table == "" {
		return ecerrors.NewValidationError(EnvTable, "table is required")
	}
	return nil
}
