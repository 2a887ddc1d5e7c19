package daily_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evil-hangman/go-server/internal/daily"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
		CREATE TABLE daily_results (
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			length INTEGER NOT NULL,
			guesses INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(user_id, date)
		);`)
	require.NoError(t, err)
	return db
}

func TestStore_InsertAndAlreadyPlayed(t *testing.T) {
	st := daily.NewStore(newTestDB(t))
	ctx := context.Background()

	played, err := st.AlreadyPlayed(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	assert.False(t, played)

	r := daily.Result{UserID: "u1", Date: "2025-03-10", Length: 6, Guesses: 11, ElapsedMs: 42000}
	require.NoError(t, st.InsertResult(ctx, r))

	played, err = st.AlreadyPlayed(ctx, "u1", "2025-03-10")
	require.NoError(t, err)
	assert.True(t, played)

	// Second insert for the same day is ignored, not an error.
	r.Guesses = 5
	require.NoError(t, st.InsertResult(ctx, r))

	rows, err := st.Leaderboard(ctx, "2025-03-10", 20)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 11, rows[0].Guesses)
}

func TestStore_LeaderboardOrdering(t *testing.T) {
	st := daily.NewStore(newTestDB(t))
	ctx := context.Background()

	for _, r := range []daily.Result{
		{UserID: "slow-few", Date: "2025-03-10", Length: 6, Guesses: 9, ElapsedMs: 90000},
		{UserID: "fast-many", Date: "2025-03-10", Length: 6, Guesses: 14, ElapsedMs: 10000},
		{UserID: "fast-few", Date: "2025-03-10", Length: 6, Guesses: 9, ElapsedMs: 30000},
		{UserID: "other-day", Date: "2025-03-11", Length: 4, Guesses: 8, ElapsedMs: 1000},
	} {
		require.NoError(t, st.InsertResult(ctx, r))
	}

	rows, err := st.Leaderboard(ctx, "2025-03-10", 20)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Fewest letters used wins; elapsed time breaks ties.
	assert.Equal(t, "fast-few", rows[0].UserID)
	assert.Equal(t, "slow-few", rows[1].UserID)
	assert.Equal(t, "fast-many", rows[2].UserID)
}

func TestStore_LeaderboardLimit(t *testing.T) {
	st := daily.NewStore(newTestDB(t))
	ctx := context.Background()

	for _, uid := range []string{"a", "b", "c"} {
		require.NoError(t, st.InsertResult(ctx, daily.Result{
			UserID: uid, Date: "2025-03-10", Length: 5, Guesses: 10, ElapsedMs: 5000,
		}))
	}
	rows, err := st.Leaderboard(ctx, "2025-03-10", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
