package gitsync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "cardpress", Email: "cardpress@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func TestSyncer_Disabled(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Juegos")
	s := NewSyncer(dir, "", "")

	assert.False(t, s.Enabled())
	require.NoError(t, s.Sync(context.Background()))
	assert.NoDirExists(t, dir)
}

func TestSyncer_CloneThenPull(t *testing.T) {
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not available for the file transport")
	}

	upstreamDir := t.TempDir()
	upstream, err := git.PlainInit(upstreamDir, false)
	require.NoError(t, err)
	commitFile(t, upstream, upstreamDir, "uno/parte_atras.png")

	dir := filepath.Join(t.TempDir(), "Juegos")
	s := NewSyncer(dir, upstreamDir, "")

	require.NoError(t, s.Sync(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "uno", "parte_atras.png"))

	require.NoError(t, s.Sync(context.Background()), "second sync is a no-op")

	commitFile(t, upstream, upstreamDir, "uno/rojo.png")
	require.NoError(t, s.Sync(context.Background()))
	assert.FileExists(t, filepath.Join(dir, "uno", "rojo.png"))
}

func TestSyncer_ConcurrentSyncs(t *testing.T) {
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not available for the file transport")
	}

	upstreamDir := t.TempDir()
	upstream, err := git.PlainInit(upstreamDir, false)
	require.NoError(t, err)
	commitFile(t, upstream, upstreamDir, "uno/parte_atras.png")

	dir := filepath.Join(t.TempDir(), "Juegos")
	s := NewSyncer(dir, upstreamDir, "")

	const callers = 4
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.Sync(context.Background())
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(dir, "uno", "parte_atras.png"))
}

func TestSyncer_BadURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Juegos")
	s := NewSyncer(dir, filepath.Join(t.TempDir(), "does-not-exist"), "")
	assert.Error(t, s.Sync(context.Background()))
}
