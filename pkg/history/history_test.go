package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db := NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveRunAssignsIDAndTimestamp(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	run := &Run{
		Root:   "/home/user/project",
		Query:  "where is the entrypoint?",
		Answer: "main.go",
		Model:  "gpt-4o",
		Steps:  3,
	}
	require.NoError(t, db.SaveRun(ctx, run))

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
}

func TestListRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.SaveRun(ctx, &Run{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			Root:      "/p",
			Query:     "q",
			Answer:    string(rune('a' + i)),
		}))
	}

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].Answer)
	assert.Equal(t, "a", runs[2].Answer)

	limited, err := db.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestGetRunRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	in := &Run{
		Root:             "/srv/app",
		Query:            "how does auth work?",
		Answer:           "see middleware",
		Model:            "gemini-2.5-flash",
		Steps:            7,
		PromptTokens:     1234,
		CompletionTokens: 56,
	}
	require.NoError(t, db.SaveRun(ctx, in))

	out, err := db.GetRun(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, in.Query, out.Query)
	assert.Equal(t, in.Answer, out.Answer)
	assert.Equal(t, in.Model, out.Model)
	assert.Equal(t, in.Steps, out.Steps)
	assert.Equal(t, in.PromptTokens, out.PromptTokens)
	assert.Equal(t, in.CompletionTokens, out.CompletionTokens)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
}

func TestGetRunUnknownID(t *testing.T) {
	db := openTestDB(t)

	_, err := db.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
