package list

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktrunk/worktrunk/internal/git/gittest"
	"github.com/worktrunk/worktrunk/internal/iostreams/iostreamstest"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

func TestListRun_Table(t *testing.T) {
	_, root := gittest.NewRepo(t)
	svc := worktrunk.NewService()

	_, err := svc.EnsureWorktree(context.Background(), worktrunk.EnsureWorktreeParams{
		RepoRoot:        root,
		Branch:          "feat-42",
		WorktreeBaseDir: filepath.Join(root, ".worktrees"),
	})
	require.NoError(t, err)

	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return svc },
		RepoRoot:  root,
	}

	require.NoError(t, listRun(context.Background(), opts))

	out := ios.OutBuf.String()
	assert.Contains(t, out, "BRANCH")
	assert.Contains(t, out, "feat-42")
	assert.Contains(t, out, "main")
}

func TestListRun_Quiet(t *testing.T) {
	_, root := gittest.NewRepo(t)
	svc := worktrunk.NewService()

	_, err := svc.EnsureWorktree(context.Background(), worktrunk.EnsureWorktreeParams{
		RepoRoot:        root,
		Branch:          "feat-42",
		WorktreeBaseDir: filepath.Join(root, ".worktrees"),
	})
	require.NoError(t, err)

	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return svc },
		RepoRoot:  root,
		Quiet:     true,
	}

	require.NoError(t, listRun(context.Background(), opts))

	out := ios.OutBuf.String()
	assert.NotContains(t, out, "BRANCH")
	assert.Contains(t, out, "feat-42")
}

func TestListRun_NotARepo(t *testing.T) {
	ios := iostreamstest.New()
	opts := &ListOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		RepoRoot:  t.TempDir(),
	}

	err := listRun(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "NOT_A_GIT_REPO", worktrunk.CodeOf(err))
}
