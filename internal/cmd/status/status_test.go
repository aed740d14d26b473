package status

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktrunk/worktrunk/internal/git/gittest"
	"github.com/worktrunk/worktrunk/internal/iostreams/iostreamstest"
	"github.com/worktrunk/worktrunk/pkg/worktrunk"
)

func TestStatusRun(t *testing.T) {
	_, root := gittest.NewRepo(t)

	ios := iostreamstest.New()
	opts := &StatusOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		RepoRoot:  root,
	}

	require.NoError(t, statusRun(context.Background(), opts))

	out := ios.OutBuf.String()
	assert.Contains(t, out, "Repository: "+root)
	assert.Contains(t, out, "Branch: ")
}

func TestStatusRun_NotARepo(t *testing.T) {
	ios := iostreamstest.New()
	opts := &StatusOptions{
		IOStreams: ios.IOStreams,
		Service:   func() *worktrunk.Service { return worktrunk.NewService() },
		RepoRoot:  t.TempDir(),
	}

	err := statusRun(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, "NOT_A_GIT_REPO", worktrunk.CodeOf(err))
}
