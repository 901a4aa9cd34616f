package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathomcli/fathom/pkg/config"
	"github.com/fathomcli/fathom/pkg/history"
)

func newTestMain(t *testing.T) *Main {
	t.Helper()
	return &Main{
		ConfigPath:  filepath.Join(t.TempDir(), "config.yaml"),
		HistoryPath: ":memory:",
	}
}

func TestRunNoArgsShowsHelp(t *testing.T) {
	m := newTestMain(t)
	defer m.Close()

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no directory specified")
	assert.Contains(t, stdout.String(), "fathom")
}

func TestRunHelpCommand(t *testing.T) {
	m := newTestMain(t)
	defer m.Close()

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "explore")
	assert.Contains(t, stdout.String(), "history")
}

func TestRunHistoryEmpty(t *testing.T) {
	m := newTestMain(t)
	defer m.Close()

	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"history"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No runs recorded yet.")
}

func TestHistoryListAndShow(t *testing.T) {
	db := history.NewDB(":memory:")
	require.NoError(t, db.Open())
	defer db.Close()

	ctx := context.Background()
	run := &history.Run{
		Root:   "/srv/app",
		Query:  "how does auth work?",
		Answer: "through the session middleware",
		Model:  "gpt-4o",
		Steps:  4,
	}
	require.NoError(t, db.SaveRun(ctx, run))

	deps := &Dependencies{Ctx: ctx, History: db}

	var list bytes.Buffer
	deps.Stdout = &list
	require.NoError(t, (&HistoryCmd{Limit: 10}).Run(deps))
	assert.Contains(t, list.String(), "how does auth work?")
	assert.Contains(t, list.String(), shortID(run.ID))

	var show bytes.Buffer
	deps.Stdout = &show
	require.NoError(t, (&HistoryCmd{ID: shortID(run.ID)}).Run(deps))
	assert.Contains(t, show.String(), "through the session middleware")
}

func TestHistoryShowUnknownID(t *testing.T) {
	db := history.NewDB(":memory:")
	require.NoError(t, db.Open())
	defer db.Close()

	deps := &Dependencies{Ctx: context.Background(), History: db, Stdout: &bytes.Buffer{}}
	err := (&HistoryCmd{ID: "deadbeef"}).Run(deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAskResolveSettingsFlagPrecedence(t *testing.T) {
	base := config.Defaults()
	base.Model = "gpt-4o"

	cmd := &AskCmd{Provider: "gemini", TokenLimit: 500}
	settings := cmd.resolveSettings(base)

	assert.Equal(t, "gemini", settings.Provider)
	assert.Equal(t, 500, settings.TokenLimit)
	// Untouched flags keep the config values.
	assert.Equal(t, "gpt-4o", settings.Model)
	assert.Equal(t, config.DefaultMaxSteps, settings.MaxSteps)

	// The base settings are not mutated.
	assert.Equal(t, config.DefaultProvider, base.Provider)
}

func TestAskRejectsBadProviderFlag(t *testing.T) {
	m := newTestMain(t)
	defer m.Close()

	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"--provider", "claude", dir, "query"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}
