package remove

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/git/gittest"
	"github.com/worktrunk/worktrunk/internal/iostreams/iostreamstest"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

func TestRemoveRun_Single(t *testing.T) {
	_, root := gittest.NewRepo(t)
	svc := worktrunk.NewService()

	result, err := svc.EnsureWorktree(context.Background(), worktrunk.EnsureWorktreeParams{
		RepoRoot:        root,
		Branch:          "feat-42",
		WorktreeBaseDir: filepath.Join(root, ".worktrees"),
	})
	require.NoError(t, err)

	ios := iostreamstest.New()
	opts := &RemoveOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return svc },
		RepoRoot:  root,
		Branches:  []string{"feat-42"},
	}

	require.NoError(t, removeRun(context.Background(), opts))

	assert.Contains(t, ios.ErrBuf.String(), "Removed 1 worktree")
	_, statErr := os.Stat(result.WorktreePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveRun_UnknownBranch(t *testing.T) {
	_, root := gittest.NewRepo(t)

	ios := iostreamstest.New()
	opts := &RemoveOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		RepoRoot:  root,
		Branches:  []string{"ghost"},
	}

	err := removeRun(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "WORKTREE_NOT_FOUND", worktrunk.CodeOf(err))
}

func TestRemoveRun_PartialFailure(t *testing.T) {
	_, root := gittest.NewRepo(t)
	svc := worktrunk.NewService()
	ctx := context.Background()

	_, err := svc.EnsureWorktree(ctx, worktrunk.EnsureWorktreeParams{
		RepoRoot:        root,
		Branch:          "feat-42",
		WorktreeBaseDir: filepath.Join(root, ".worktrees"),
	})
	require.NoError(t, err)

	ios := iostreamstest.New()
	opts := &RemoveOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return svc },
		RepoRoot:  root,
		Branches:  []string{"feat-42", "ghost", "phantom"},
	}

	err = removeRun(ctx, opts)
	assert.ErrorIs(t, err, cmdutil.SilentError)
	assert.Contains(t, ios.ErrBuf.String(), "Removed 1 worktree")
	assert.Contains(t, ios.ErrBuf.String(), "ghost")
	assert.Contains(t, ios.ErrBuf.String(), "phantom")
}
