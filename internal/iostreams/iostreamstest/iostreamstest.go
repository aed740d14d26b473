// Package iostreamstest provides test doubles for the iostreams package.
package iostreamstest

import (
	"bytes"

	"github.com/worktrunk/worktrunk/internal/iostreams"
)

// TestIOStreams wraps IOStreams for testing with accessible buffers.
type TestIOStreams struct {
	*iostreams.IOStreams
	InBuf  *bytes.Buffer
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// New creates IOStreams for testing: non-interactive, colors disabled,
// backed by in-memory buffers.
func New() *TestIOStreams {
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	ios := &iostreams.IOStreams{
		In:     in,
		Out:    out,
		ErrOut: errOut,
	}
	ios.SetStdinTTY(false)
	ios.SetStdoutTTY(false)
	ios.SetStderrTTY(false)
	ios.SetColorEnabled(false)

	return &TestIOStreams{
		IOStreams: ios,
		InBuf:     in,
		OutBuf:    out,
		ErrBuf:    errOut,
	}
}

// SetInteractive simulates attached terminals on all three streams.
func (t *TestIOStreams) SetInteractive(interactive bool) {
	t.SetStdinTTY(interactive)
	t.SetStdoutTTY(interactive)
	t.SetStderrTTY(interactive)
}
