package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v6/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorktreeSet_AddAtBranch(t *testing.T) {
	gg, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	set, err := repo.Worktrees()
	require.NoError(t, err)

	head, err := gg.Head()
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranchAt("feat/x", head.Hash()))

	wtPath := filepath.Join(t.TempDir(), "feat-x")
	require.NoError(t, os.MkdirAll(wtPath, 0755))

	err = set.AddAtBranch(wtPath, "feat-x", plumbing.NewBranchReferenceName("feat/x"))
	require.NoError(t, err)

	names, err := set.Names()
	require.NoError(t, err)
	assert.Contains(t, names, "feat-x")

	// The worktree checks out the branch, not a detached HEAD.
	wtRepo, err := set.Open(wtPath)
	require.NoError(t, err)
	wtHead, err := wtRepo.Head()
	require.NoError(t, err)
	assert.Equal(t, "feat/x", wtHead.Name().Short())
}

func TestWorktreeSet_Entries(t *testing.T) {
	gg, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	set, err := repo.Worktrees()
	require.NoError(t, err)

	t.Run("empty registry", func(t *testing.T) {
		entries, err := set.Entries()
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	head, err := gg.Head()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranchAt("feature", head.Hash()))

	wtPath := filepath.Join(t.TempDir(), "feature")
	require.NoError(t, os.MkdirAll(wtPath, 0755))
	require.NoError(t, set.AddAtBranch(wtPath, "feature", plumbing.NewBranchReferenceName("feature")))

	t.Run("resolves path and lock state", func(t *testing.T) {
		entries, err := set.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 1)

		assert.Equal(t, "feature", entries[0].Name)
		assert.Equal(t, wtPath, entries[0].Path)
		assert.False(t, entries[0].Locked)
	})

	t.Run("lock marker reported", func(t *testing.T) {
		lockPath := filepath.Join(repoDir, ".git", "worktrees", "feature", "locked")
		require.NoError(t, os.WriteFile(lockPath, []byte("checked out on removable media\n"), 0o644))

		entries, err := set.Entries()
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.True(t, entries[0].Locked)

		require.NoError(t, os.Remove(lockPath))
	})
}

func TestWorktreeSet_Prune(t *testing.T) {
	gg, repoDir := newTestRepoOnDisk(t)
	repo, err := Open(repoDir)
	require.NoError(t, err)

	set, err := repo.Worktrees()
	require.NoError(t, err)

	head, err := gg.Head()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranchAt("prune-me", head.Hash()))

	wtPath := filepath.Join(t.TempDir(), "prune-me")
	require.NoError(t, os.MkdirAll(wtPath, 0755))
	require.NoError(t, set.AddAtBranch(wtPath, "prune-me", plumbing.NewBranchReferenceName("prune-me")))

	entries, err := set.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = set.Prune(entries[0])
	require.NoError(t, err)

	names, err := set.Names()
	require.NoError(t, err)
	assert.NotContains(t, names, "prune-me")
	assert.NoDirExists(t, wtPath)
}
