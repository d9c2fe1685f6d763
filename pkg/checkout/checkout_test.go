package checkout

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	dir  string
	line string
}

type fakeGit struct {
	calls  []call
	failOn string
}

func (f *fakeGit) run(_ context.Context, dir string, command string, args ...string) error {
	line := command + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call{dir: dir, line: line})

	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return errors.New("exit status 128")
	}

	return nil
}

func TestSync_absentClones(t *testing.T) {
	dir := t.TempDir()
	git := &fakeGit{}

	state, err := Sync(context.Background(), git.run, Options{
		RepoURL: "https://example.com/bot.git",
		Branch:  "main",
		Dir:     dir,
	})

	require.NoError(t, err)
	assert.Equal(t, StateAbsent, state)
	assert.Equal(t, []call{
		{dir: dir, line: "git clone --branch main https://example.com/bot.git " + dir},
	}, git.calls)
}

func TestSync_presentFastForwards(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	git := &fakeGit{}

	state, err := Sync(context.Background(), git.run, Options{
		RepoURL: "https://example.com/bot.git",
		Branch:  "release",
		Dir:     dir,
	})

	require.NoError(t, err)
	assert.Equal(t, StatePresent, state)
	assert.Equal(t, []call{
		{dir: dir, line: "git fetch origin release"},
		{dir: dir, line: "git checkout release"},
		{dir: dir, line: "git pull --ff-only origin release"},
	}, git.calls)
	for _, c := range git.calls {
		assert.NotContains(t, c.line, "safe.directory")
	}
}

func TestSync_divergedHistoryFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0755))
	git := &fakeGit{failOn: "--ff-only"}

	_, err := Sync(context.Background(), git.run, Options{
		RepoURL: "https://example.com/bot.git",
		Branch:  "main",
		Dir:     dir,
	})

	var notFF *NotFastForwardError
	require.ErrorAs(t, err, &notFF)
	assert.Equal(t, "main", notFF.Branch)
	for _, c := range git.calls {
		assert.NotContains(t, c.line, "clone")
	}
}

func TestSync_cloneFailure(t *testing.T) {
	git := &fakeGit{failOn: "clone"}

	_, err := Sync(context.Background(), git.run, Options{
		RepoURL: "https://example.com/bot.git",
		Branch:  "main",
		Dir:     t.TempDir(),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to clone repository")
}

func TestDetect_gitFile(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, StateAbsent, Detect(dir))

	// Worktrees and submodules use a .git file instead of a directory.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: /elsewhere\n"), 0644))
	assert.Equal(t, StatePresent, Detect(dir))
}
