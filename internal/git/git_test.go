package git

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepoOnDisk creates a real git repository in a temp directory.
// The worktree registry requires filesystem-backed storage.
func newTestRepoOnDisk(t *testing.T) (*gogit.Repository, string) {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "init test repo")

	wt, err := repo.Worktree()
	require.NoError(t, err)

	readme := filepath.Join(dir, "README.md")
	err = os.WriteFile(readme, []byte("# Test Repo\n"), 0644)
	require.NoError(t, err)

	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return repo, dir
}

func TestOpen(t *testing.T) {
	t.Run("opens repo from root", func(t *testing.T) {
		_, repoDir := newTestRepoOnDisk(t)

		repo, err := Open(repoDir)
		require.NoError(t, err)
		assert.Equal(t, repoDir, repo.Root())
		assert.NotNil(t, repo.Underlying())
	})

	t.Run("does not walk up from subdirectory", func(t *testing.T) {
		_, repoDir := newTestRepoOnDisk(t)

		subdir := filepath.Join(repoDir, "src", "pkg")
		require.NoError(t, os.MkdirAll(subdir, 0755))

		_, err := Open(subdir)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRepository))
	})

	t.Run("returns ErrNotRepository for non-git directory", func(t *testing.T) {
		_, err := Open(t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRepository), "expected ErrNotRepository, got: %v", err)
	})
}

func TestOpenFrom(t *testing.T) {
	t.Run("walks up from subdirectory", func(t *testing.T) {
		_, repoDir := newTestRepoOnDisk(t)

		subdir := filepath.Join(repoDir, "src", "pkg")
		require.NoError(t, os.MkdirAll(subdir, 0755))

		repo, err := OpenFrom(subdir)
		require.NoError(t, err)
		assert.Equal(t, repoDir, repo.Root())
	})

	t.Run("returns ErrNotRepository outside any repo", func(t *testing.T) {
		_, err := OpenFrom(t.TempDir())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotRepository))
	})
}

func TestNewRepositoryFrom(t *testing.T) {
	gitRepo, dir := newTestRepoOnDisk(t)

	repo := NewRepositoryFrom(gitRepo, dir)
	assert.Equal(t, dir, repo.Root())
	assert.Same(t, gitRepo, repo.Underlying())

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.NotEmpty(t, branch)
}

func TestRepository_CurrentBranch(t *testing.T) {
	_, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	branch, err := repo.CurrentBranch()
	require.NoError(t, err)
	// go-git defaults to "master"
	assert.Contains(t, []string{"master", "main"}, branch)
}

func TestRepository_BranchExists(t *testing.T) {
	_, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	t.Run("existing branch returns true", func(t *testing.T) {
		current, err := repo.CurrentBranch()
		require.NoError(t, err)

		exists, err := repo.BranchExists(current)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("non-existing branch returns false", func(t *testing.T) {
		exists, err := repo.BranchExists("nonexistent-branch")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestRepository_CreateAndRemoveBranch(t *testing.T) {
	_, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	head, err := repo.Head()
	require.NoError(t, err)

	err = repo.CreateBranchAt("feat/created", head.Hash())
	require.NoError(t, err)

	exists, err := repo.BranchExists("feat/created")
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.RemoveBranch("feat/created")
	require.NoError(t, err)

	exists, err = repo.BranchExists("feat/created")
	require.NoError(t, err)
	assert.False(t, exists)

	t.Run("removing missing branch returns ErrBranchNotFound", func(t *testing.T) {
		err := repo.RemoveBranch("feat/created")
		assert.True(t, errors.Is(err, ErrBranchNotFound))
	})
}

func TestRepository_RemoteURL(t *testing.T) {
	gg, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	t.Run("no remote configured", func(t *testing.T) {
		assert.Empty(t, repo.RemoteURL("origin"))
	})

	t.Run("origin configured", func(t *testing.T) {
		_, err := gg.CreateRemote(&config.RemoteConfig{
			Name: "origin",
			URLs: []string{"https://example.com/repo.git"},
		})
		require.NoError(t, err)

		// Re-open so the handle sees the new config.
		repo, err := Open(repoDir)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/repo.git", repo.RemoteURL("origin"))
	})
}

func TestRepository_ResolveRevision(t *testing.T) {
	gg, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	head, err := gg.Head()
	require.NoError(t, err)

	hash, err := repo.ResolveRevision("HEAD")
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), hash)

	_, err = repo.ResolveRevision("nonexistent-ref")
	require.Error(t, err)
}
