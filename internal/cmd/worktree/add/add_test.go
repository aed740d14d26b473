package add

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/git/gittest"
	"github.com/worktrunk/worktrunk/internal/iostreams/iostreamstest"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

func testSettings() func() (*config.Settings, error) {
	return func() (*config.Settings, error) {
		return config.DefaultSettings(), nil
	}
}

func TestNewCmdAdd(t *testing.T) {
	ios := iostreamstest.New()

	f := &cmdutil.Factory{
		IOStreams: ios.IOStreams,
		Settings:  testSettings(),
	}

	cmd := NewCmdAdd(f, nil)

	assert.Equal(t, "add BRANCH", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)

	baseDirFlag := cmd.Flags().Lookup("base-dir")
	require.NotNil(t, baseDirFlag)
	assert.Equal(t, "", baseDirFlag.DefValue)
}

func TestNewCmdAdd_RequiresArg(t *testing.T) {
	ios := iostreamstest.New()

	f := &cmdutil.Factory{
		IOStreams: ios.IOStreams,
		Settings:  testSettings(),
	}

	cmd := NewCmdAdd(f, nil)
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestNewCmdAdd_RunFReceivesOptions(t *testing.T) {
	ios := iostreamstest.New()

	f := &cmdutil.Factory{
		IOStreams: ios.IOStreams,
		Settings:  testSettings(),
	}

	var got *AddOptions
	cmd := NewCmdAdd(f, func(_ context.Context, opts *AddOptions) error {
		got = opts
		return nil
	})
	cmd.SetArgs([]string{"feature/login", "--repo", "/tmp/repo", "--base-dir", "/tmp/trees"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	require.NotNil(t, got)
	assert.Equal(t, "feature/login", got.Branch)
	assert.Equal(t, "/tmp/repo", got.RepoRoot)
	assert.Equal(t, "/tmp/trees", got.BaseDir)
}

func TestAddRun_CreatesWorktree(t *testing.T) {
	_, root := gittest.NewRepo(t)
	ios := iostreamstest.New()

	opts := &AddOptions{
		IOStreams: ios.IOStreams,
		Settings:  testSettings(),
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		Branch:    "feat-42",
		RepoRoot:  root,
	}

	require.NoError(t, addRun(context.Background(), opts))

	assert.Contains(t, ios.ErrBuf.String(), "Worktree ready at ")
	assert.DirExists(t, filepath.Join(root, ".worktrees", "feat-42"))
}

func TestAddRun_SettingsError(t *testing.T) {
	ios := iostreamstest.New()

	opts := &AddOptions{
		IOStreams: ios.IOStreams,
		Settings: func() (*config.Settings, error) {
			return nil, assert.AnError
		},
		Branch:   "feat-42",
		RepoRoot: t.TempDir(),
	}

	err := addRun(context.Background(), opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading settings")
}

func TestAddRun_NotARepo(t *testing.T) {
	ios := iostreamstest.New()

	opts := &AddOptions{
		IOStreams: ios.IOStreams,
		Settings:  testSettings(),
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		Branch:    "feat-42",
		RepoRoot:  t.TempDir(),
	}

	err := addRun(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "NOT_A_GIT_REPO", worktrunk.CodeOf(err))
}
