package trip

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"join/internal/types"
)

func setupEventStore(t *testing.T) *EventStore {
	t.Helper()

	dsn := os.Getenv("JOIN_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("JOIN_TEST_DB_DSN not set; skipping postgres-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, applyMigrations(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE trip_status_events")
	require.NoError(t, err)
	return NewEventStore(db)
}

func TestEventStore_AppendAndList(t *testing.T) {
	store := setupEventStore(t)
	ctx := context.Background()
	rider := types.ID("u1")
	base := time.Date(2025, 1, 8, 6, 0, 0, 0, time.UTC)

	steps := []Event{
		{TripID: "t1", FromStatus: StatusNone, ToStatus: StatusPending, ActorType: ActorRider, ActorID: &rider, CreatedAt: base},
		{TripID: "t1", FromStatus: StatusPending, ToStatus: StatusConfirmed, ActorType: ActorSystem, CreatedAt: base.Add(time.Minute)},
		{TripID: "t2", FromStatus: StatusNone, ToStatus: StatusPending, ActorType: ActorRider, ActorID: &rider, CreatedAt: base},
	}
	for i := range steps {
		require.NoError(t, store.AppendEvent(ctx, &steps[i]))
	}

	got, err := store.ListEvents(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, StatusPending, got[0].ToStatus)
	require.NotNil(t, got[0].ActorID)
	assert.Equal(t, rider, *got[0].ActorID)
	assert.Equal(t, StatusConfirmed, got[1].ToStatus)
	assert.Nil(t, got[1].ActorID)

	none, err := store.ListEvents(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func applyMigrations(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	paths, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, stmt := range splitSQL(stripSQLComments(string(content))) {
			if _, err := db.Exec(ctx, stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	var out []string
	for _, p := range strings.Split(input, ";") {
		if stmt := strings.TrimSpace(p); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
