//go:build integration

package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vinted-tools/vinted-notifier/internal/history"
)

func setupPostgres(t *testing.T) *history.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("vinted_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := history.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func TestPostgresStore_LoadEmpty(t *testing.T) {
	s := setupPostgres(t)

	rec, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rec)
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	rec := history.Record{
		"278727725": {102, 101, 100, 99},
		"123456":    {7},
	}
	require.NoError(t, s.Save(ctx, rec))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.ElementsMatch(t, rec["278727725"], loaded["278727725"])
	assert.ElementsMatch(t, rec["123456"], loaded["123456"])
}

func TestPostgresStore_SaveReplacesTrimmedEntries(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, history.Record{"p": {3, 2, 1}}))
	require.NoError(t, s.Save(ctx, history.Record{"p": {5, 4, 3}}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{5, 4, 3}, loaded["p"])
}
