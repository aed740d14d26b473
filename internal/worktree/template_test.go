package worktree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathTemplate_Default(t *testing.T) {
	got := DefaultTemplate().Render("/repo", "/repo/.worktrees", "feat-42")
	assert.Equal(t, "/repo/.worktrees/feat-42", got)
}

func TestPathTemplate_BranchWithSlashes(t *testing.T) {
	// Slashes in the branch pass through verbatim, producing nested dirs.
	got := DefaultTemplate().Render("/repo", "/trees", "feature/new-login")
	assert.Equal(t, "/trees/feature/new-login", got)
}

func TestPathTemplate_RepoRootPlaceholder(t *testing.T) {
	tpl := NewPathTemplate("{repoRoot}/wt/{branch}")
	got := tpl.Render("/srv/repo", "/ignored", "main")
	assert.Equal(t, "/srv/repo/wt/main", got)
}

func TestPathTemplate_RepeatedPlaceholders(t *testing.T) {
	tpl := NewPathTemplate("{branch}/{branch}")
	assert.Equal(t, "x/x", tpl.Render("", "", "x"))
}

func TestPathTemplate_UnknownPlaceholderSurvives(t *testing.T) {
	tpl := NewPathTemplate("{worktreeBaseDir}/{bogus}/{branch}")
	got := tpl.Render("/repo", "/trees", "main")
	assert.Equal(t, "/trees/{bogus}/main", got)
}

func TestPathTemplate_NoNormalization(t *testing.T) {
	// Rendering is textual: doubled separators are the caller's problem.
	tpl := NewPathTemplate("{worktreeBaseDir}/{branch}")
	assert.Equal(t, "/trees//main", tpl.Render("/repo", "/trees/", "main"))
}
