package worktree

import "strings"

// DefaultPathTemplate places each worktree directly under the base
// directory, named after its branch.
const DefaultPathTemplate = "{worktreeBaseDir}/{branch}"

// PathTemplate computes worktree paths by textual substitution of the
// placeholders {repoRoot}, {worktreeBaseDir}, and {branch}. Rendering is
// pure: no I/O, no path normalization, no escaping of slashes inside the
// branch name. Placeholders absent from the template are ignored; unknown
// placeholders survive verbatim.
type PathTemplate struct {
	template string
}

// NewPathTemplate returns a template rendering the given pattern.
func NewPathTemplate(template string) PathTemplate {
	return PathTemplate{template: template}
}

// DefaultTemplate returns the template for DefaultPathTemplate.
func DefaultTemplate() PathTemplate {
	return PathTemplate{template: DefaultPathTemplate}
}

// Render substitutes every occurrence of each placeholder with the input
// string verbatim. The caller is responsible for placeholder values being
// valid path fragments on the target platform.
func (t PathTemplate) Render(repoRoot, baseDir, branch string) string {
	result := t.template
	result = strings.ReplaceAll(result, "{repoRoot}", repoRoot)
	result = strings.ReplaceAll(result, "{worktreeBaseDir}", baseDir)
	result = strings.ReplaceAll(result, "{branch}", branch)
	return result
}
