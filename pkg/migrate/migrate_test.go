package migrate

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := fs.Glob(Migrations(), "*_"+suffix+".sql")
	require.NoError(t, err)
	require.Len(t, matches, 1, "expected one %s migration", suffix)
	data, err := fs.ReadFile(Migrations(), matches[0])
	require.NoError(t, err)
	return string(data)
}

func TestMediaMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_media")
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS media",
		"CHECK (type IN ('IMAGE', 'VIDEO', 'AUDIO'))",
		"CHECK (size > 0)",
		"REFERENCES users(id) ON DELETE SET NULL",
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_media_object_key",
		"DROP TABLE IF EXISTS media",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestPostsMigrationForeignKeyPolicy(t *testing.T) {
	content := readMigration(t, "create_posts")
	assert.Contains(t, content, "FOREIGN KEY (author_id) REFERENCES users(id) ON DELETE CASCADE")
	assert.Contains(t, content, "FOREIGN KEY (media_id) REFERENCES media(id) ON DELETE SET NULL")
}

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, ValidateFS(Migrations()))
}

func TestUpAppliesOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_up?mode=memory&cache=shared&_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	applied, err := Up(context.Background(), sqlDB, DialectSQLite)
	require.NoError(t, err)
	assert.Equal(t, 3, applied)

	for _, table := range []string{"users", "media", "posts"} {
		assert.True(t, tableExists(t, sqlDB, table), "table %s", table)
	}

	applied, err = Up(context.Background(), sqlDB, DialectSQLite)
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count))
	return count == 1
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	fixed := func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }

	path, err := createSQLMigration(dir, "Add Media Alt!", fixed)
	require.NoError(t, err)
	assert.Equal(t, "20260301100000_add_media_alt.sql", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "-- +goose Up"))

	_, err = createSQLMigration(dir, "Add Media Alt!", fixed)
	require.Error(t, err)
	require.NoError(t, ValidateDir(dir))
}
