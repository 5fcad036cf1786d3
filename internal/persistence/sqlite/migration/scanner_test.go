package migration

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys["migrations/"+name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestFileScanner_ScanMigrations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		files         map[string]string
		expectedOrder []string
		expectErr     error
	}{
		{
			name: "orders by numeric version",
			files: map[string]string{
				"010_late.sql":   "CREATE TABLE c (id INTEGER);",
				"002_second.sql": "CREATE TABLE b (id INTEGER);",
				"001_first.sql":  "CREATE TABLE a (id INTEGER);",
			},
			expectedOrder: []string{"001", "002", "010"},
		},
		{
			name: "ignores non sql files",
			files: map[string]string{
				"001_first.sql": "CREATE TABLE a (id INTEGER);",
				"README.md":     "# notes",
			},
			expectedOrder: []string{"001"},
		},
		{
			name:      "rejects bad names",
			files:     map[string]string{"first.sql": "CREATE TABLE a (id INTEGER);"},
			expectErr: ErrInvalidMigrationFile,
		},
		{
			name: "rejects duplicate versions",
			files: map[string]string{
				"001_a.sql":  "CREATE TABLE a (id INTEGER);",
				"0001_b.sql": "CREATE TABLE b (id INTEGER);",
			},
			expectErr: ErrDuplicateVersion,
		},
		{
			name:      "rejects comment only files",
			files:     map[string]string{"001_empty.sql": "-- nothing here\n"},
			expectErr: ErrInvalidMigrationFile,
		},
		{
			name:      "rejects unbalanced parentheses",
			files:     map[string]string{"001_broken.sql": "CREATE TABLE a (id INTEGER;"},
			expectErr: ErrInvalidMigrationFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			migrations, err := NewFileScanner().ScanMigrations(mapFS(tc.files), "migrations")
			if tc.expectErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			versions := make([]string, 0, len(migrations))
			for _, m := range migrations {
				versions = append(versions, m.Version)
				assert.NotEmpty(t, m.Checksum)
			}
			assert.Equal(t, tc.expectedOrder, versions)
		})
	}
}

func TestFileScanner_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := NewFileScanner().ScanMigrations(fstest.MapFS{}, "migrations")
	var mErr *MigrationError
	assert.True(t, errors.As(err, &mErr))
}

func TestFileScanner_Description(t *testing.T) {
	t.Parallel()

	files := mapFS(map[string]string{
		"001_initial_schema.sql": "CREATE TABLE a (id INTEGER);",
		"002_rooms.sql":          "-- Description: Room tables\nCREATE TABLE b (id INTEGER);",
	})
	migrations, err := NewFileScanner().ScanMigrations(files, "migrations")
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, "initial schema", migrations[0].Description)
	assert.Equal(t, "Room tables", migrations[1].Description)
	assert.Equal(t, "migrations/002_rooms.sql", migrations[1].FilePath)
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	statements := splitStatements(`
-- header
CREATE TABLE a (id INTEGER);
-- comment only;
CREATE INDEX idx_a ON a(id);
`)
	assert.Equal(t, []string{"CREATE TABLE a (id INTEGER)", "CREATE INDEX idx_a ON a(id)"}, statements)
}
