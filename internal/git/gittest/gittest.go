// Package gittest provides test fixtures for packages operating on git
// repositories. Fixtures are on-disk: the linked worktree registry only
// exists with filesystem-backed storage.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"
)

// NewRepo creates a git repository in a fresh temp directory, seeded with
// one commit so HEAD resolves. Returns the go-git handle and the root path.
func NewRepo(t *testing.T) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "init test repo")

	WriteCommit(t, repo, dir, "README.md", "# Test Repo\n", "initial commit")
	return repo, dir
}

// NewEmptyRepo creates a git repository with no commits (unborn HEAD).
func NewEmptyRepo(t *testing.T) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "init empty test repo")
	return repo, dir
}

// WriteCommit writes a file into the working directory, stages it, and
// commits. Returns nothing; failures abort the test.
func WriteCommit(t *testing.T, repo *gogit.Repository, dir, name, content, message string) {
	t.Helper()

	wt, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err = wt.Add(name)
	require.NoError(t, err)

	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}
