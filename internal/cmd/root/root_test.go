package root

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worktrunk/worktrunk/internal/cmdutil"
	"github.com/worktrunk/worktrunk/internal/config"
	"github.com/worktrunk/worktrunk/internal/iostreams/iostreamstest"
)

func testFactory() (*cmdutil.Factory, *iostreamstest.TestIOStreams) {
	ios := iostreamstest.New()
	f := &cmdutil.Factory{
		IOStreams: ios.IOStreams,
		Version:   "1.2.3",
		Settings: func() (*config.Settings, error) {
			return config.DefaultSettings(), nil
		},
	}
	return f, ios
}

func TestNewCmdRoot_Subcommands(t *testing.T) {
	f, _ := testFactory()
	cmd := NewCmdRoot(f, "1.2.3", "abc1234")

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	assert.Contains(t, names, "init")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "clone")
	assert.Contains(t, names, "worktree")
	assert.Contains(t, names, "version")
}

func TestNewCmdRoot_Version(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir()) // keep log files out of the real cache
	f, ios := testFactory()
	cmd := NewCmdRoot(f, "1.2.3", "abc1234")

	cmd.SetArgs([]string{"version"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "worktrunk version 1.2.3 (abc1234)\n", ios.OutBuf.String())
}

func TestNewCmdRoot_UnknownCommand(t *testing.T) {
	f, _ := testFactory()
	cmd := NewCmdRoot(f, "1.2.3", "abc1234")

	cmd.SetArgs([]string{"bogus"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
}
