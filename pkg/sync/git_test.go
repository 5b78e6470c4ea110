package sync

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRepo(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, InitRepo(dir, "", &out))
	assert.Contains(t, out.String(), "Initialized git repository")
	assert.Contains(t, out.String(), "No remote specified")

	_, err := os.Stat(filepath.Join(dir, ".git"))
	assert.NoError(t, err)
	ignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(ignore), "logs/")

	// Second run opens the existing repository
	out.Reset()
	require.NoError(t, InitRepo(dir, "", &out))
	assert.NotContains(t, out.String(), "Initialized")
}

func TestInitRepoSetsRemote(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	require.NoError(t, InitRepo(dir, "https://example.com/a.git", &out))
	require.NoError(t, InitRepo(dir, "https://example.com/b.git", &out))

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	remote, err := repo.Remote("origin")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b.git"}, remote.Config().URLs)
}

func TestCommit(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitRepo(dir, "", &bytes.Buffer{}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.txt"), []byte("0\n"), 0o644))

	committed, err := Commit(dir, "first")
	require.NoError(t, err)
	assert.True(t, committed)

	committed, err = Commit(dir, "nothing changed")
	require.NoError(t, err)
	assert.False(t, committed)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.txt"), []byte("10\n"), 0o644))
	committed, err = Commit(dir, "second")
	require.NoError(t, err)
	assert.True(t, committed)

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	c, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "second", c.Message)
}

func TestCommitNotRepository(t *testing.T) {
	_, err := Commit(t.TempDir(), "msg")
	assert.ErrorIs(t, err, ErrNotRepository)
}

func TestSyncRepoNotRepository(t *testing.T) {
	err := SyncRepo(t.TempDir(), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrNotRepository)
}
