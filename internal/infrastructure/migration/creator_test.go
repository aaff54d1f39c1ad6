package migration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/erp/mws-connector/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add feed archive", "add_feed_archive"},
		{"Add-Feed-Archive", "add_feed_archive"},
		{"ADD__FEED__ARCHIVE", "add_feed_archive"},
		{"index asin 2", "index_asin_2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_create_catalog.up.sql"), []byte("--"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000007_create_amazon_mws.up.sql"), []byte("--"), 0o644))

	mf, err := CreateMigration(dir, "add feed archive", "Track archived feed documents")
	require.NoError(t, err)

	assert.Equal(t, "000008", mf.Version)
	assert.Equal(t, filepath.Join(dir, "000008_add_feed_archive.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "000008_add_feed_archive.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "Track archived feed documents")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(down), "-- Rollback:"))
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nested, "init", "")
	require.NoError(t, err)
	assert.Equal(t, "000001", mf.Version)
	assert.Equal(t, "init", mf.Description)

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateMigration_Errors(t *testing.T) {
	t.Run("unusable name", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})

	t.Run("non-numeric version on disk", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "latest_schema.up.sql"), []byte("--"), 0o644))

		_, err := CreateMigration(dir, "next", "")
		assert.ErrorContains(t, err, "non-numeric version")
	})
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_create_amazon_mws.up.sql":   {Data: []byte("--")},
		"000002_create_amazon_mws.down.sql": {Data: []byte("--")},
		"000001_create_catalog.up.sql":      {Data: []byte("--")},
		"000001_create_catalog.down.sql":    {Data: []byte("--")},
		"README.md":                         {Data: []byte("docs")},
		"subdir.up.sql/keep":                {Data: []byte("")},
	}

	got, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_catalog", "000002_create_amazon_mws"}, got)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	got, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	ups, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, base := range ups {
		_, err := fs.Stat(migrations.FS, base+downSuffix)
		assert.NoError(t, err, "missing down migration for %s", base)
	}

	schema, err := fs.ReadFile(migrations.FS, "000002_create_amazon_mws.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "ON amazon_product_identifiers (code, code_type)")
	assert.Contains(t, string(schema), "ON amazon_account_links (account_id, product_id)")
}
