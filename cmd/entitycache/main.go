/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command entitycache normalizes nested data against a catalog of entity
// types and seeds, prints and persists cache stores.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
