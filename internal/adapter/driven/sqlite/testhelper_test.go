package sqlite

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey is a fixed 32-byte AES-256 key used by repository tests.
var testKey = []byte("0123456789abcdef0123456789abcdef")

// setupTestDB opens a migrated in-memory database named after the test, so
// both pools share it through cache=shared and parallel tests stay isolated.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	name := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
	db, err := openDB(context.Background(), dataSource(name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer, slog.New(slog.NewTextHandler(io.Discard, nil))))
	return db
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, RunMigrations(db.Writer, slog.New(slog.NewTextHandler(io.Discard, nil))))

	var tables int
	err := db.Reader.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('session_tokens', 'attendance_drafts')`,
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestDataSource(t *testing.T) {
	assert.Equal(t,
		"file:a.db?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=journal_mode(WAL)",
		dataSource("file:a.db", "journal_mode(WAL)"),
	)
	assert.Equal(t,
		"file:m?mode=memory&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)",
		dataSource("file:m?mode=memory"),
	)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)

	for _, s := range []string{"2025-06-02 08:30:00", "2025-06-02T08:30:00", "2025-06-02T08:30:00Z"} {
		got, err := parseTime(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), s)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
