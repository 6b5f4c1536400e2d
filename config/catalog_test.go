/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycache/errors"
	"github.com/suparena/entitycache/registry"
)

func TestLoadCatalog(t *testing.T) {
	catalog, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)
	require.Len(t, catalog.Types, 3)

	defs := catalog.Definitions()
	assert.Equal(t, "ticket", defs[0].Name)
	assert.Equal(t, []registry.Relation{
		registry.Many("tickets", "ticket"),
		registry.One("invitedBy", "user"),
	}, defs[1].Schema)

	key, err := defs[2].SelectID(registry.Record{"uid": "c-1"})
	require.NoError(t, err)
	assert.Equal(t, "c-1", key)

	_, err = defs[2].SelectID(registry.Record{"id": "c-1"})
	assert.True(t, errors.IsMissingIdentity(err))

	assert.Equal(t, []string{"comment", "ticket", "user"}, catalog.Registry().Names())
}

func TestCatalogBuildStore(t *testing.T) {
	catalog, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	store, err := catalog.BuildStore()
	require.NoError(t, err)
	assert.Equal(t, []string{"comment", "ticket", "user"}, store.Names())

	tickets, err := store.Table("ticket")
	require.NoError(t, err)
	assert.Equal(t, []registry.Key{"t-1"}, tickets.IDs)
	assert.Equal(t, registry.Record{"id": "t-1", "title": "login broken", "status": "open"}, tickets.Entities["t-1"])
	assert.Contains(t, tickets.Entities, "t-2")

	users, err := store.Table("user")
	require.NoError(t, err)
	assert.Equal(t, []registry.Key{"u-1", "u-2"}, users.IDs)
	assert.Equal(t, []any{"u-1"}, users.Entities["u-2"]["invitedBy"])
	assert.Equal(t, []any{"t-1", "t-2"}, users.Entities["u-1"]["tickets"])

	sorted, err := store.SortedIDs("ticket")
	require.NoError(t, err)
	assert.Equal(t, []registry.Key{"t-1"}, sorted)

	comments, err := store.Table("comment")
	require.NoError(t, err)
	assert.Empty(t, comments.IDs)
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Empty", "types: []"},
		{"MissingName", "types:\n  - idField: id"},
		{"DuplicateName", "types:\n  - name: a\n  - name: a"},
		{"MissingRelationKey", "types:\n  - name: a\n    relations:\n      - {type: a}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}

	t.Run("UnknownField", func(t *testing.T) {
		_, err := Parse([]byte("types:\n  - name: a\n    idFeild: uid"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse YAML")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestCatalogUndeclaredRelationType(t *testing.T) {
	catalog, err := Parse([]byte("types:\n  - name: a\n    relations:\n      - {key: b, type: b}"))
	require.NoError(t, err, "relationship types are not checked when the catalog is parsed")

	store, err := catalog.BuildStore()
	require.NoError(t, err)
	_, err = store.Ingest("a", map[string]any{"id": "a-1"})
	require.NoError(t, err, "records without the relationship never look it up")

	_, err = store.Ingest("a", map[string]any{"id": "a-2", "b": map[string]any{"id": "b-1"}})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), "a.b")
}

func TestBuildStoreSeedError(t *testing.T) {
	catalog, err := Parse([]byte("types:\n  - name: a\n    seed:\n      - {name: no id}"))
	require.NoError(t, err)

	_, err = catalog.BuildStore()
	require.Error(t, err)
	assert.True(t, errors.IsMissingIdentity(err))
}
