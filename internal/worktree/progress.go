package worktree

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Clone progress phases.
const (
	PhaseReceiving = "receiving"
	PhaseResolving = "resolving"
	PhaseDone      = "done"
)

// CloneProgress is one rate-limited transfer-progress record. Delivery is
// best-effort: intermediate ticks may be dropped, but percent never
// decreases across delivered ticks while the phase is "receiving".
type CloneProgress struct {
	Phase   string `json:"phase"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Percent int    `json:"percent"`
}

// ProgressFunc receives clone progress records. It is invoked from a
// dedicated goroutine, never from the transfer path itself.
type ProgressFunc func(CloneProgress)

// transferState accumulates the object and delta counters parsed from the
// transfer's progress stream.
type transferState struct {
	received     int
	totalObjects int
	indexed      int
	totalDeltas  int
}

// phase classifies the transfer: receiving while objects are outstanding,
// resolving while deltas are outstanding, done otherwise.
func (s transferState) phase() string {
	switch {
	case s.received < s.totalObjects:
		return PhaseReceiving
	case s.indexed < s.totalDeltas:
		return PhaseResolving
	default:
		return PhaseDone
	}
}

func (s transferState) percent() int {
	if s.totalObjects > 0 {
		return s.received * 100 / s.totalObjects
	}
	return 0
}

func (s transferState) record() CloneProgress {
	return CloneProgress{
		Phase:   s.phase(),
		Current: s.received,
		Total:   s.totalObjects,
		Percent: s.percent(),
	}
}

// progressEmitter decouples the transfer path from the host callback: ticks
// are offered through a buffered channel with a non-blocking send, and a
// single consumer goroutine invokes the callback. A congested host drops
// ticks instead of stalling the transfer.
type progressEmitter struct {
	ctx      context.Context
	ch       chan CloneProgress
	done     chan struct{}
	interval time.Duration

	mu          sync.Mutex
	lastEmit    time.Time
	lastPercent int
}

func newProgressEmitter(ctx context.Context, cb ProgressFunc, interval time.Duration) *progressEmitter {
	e := &progressEmitter{
		ctx:      ctx,
		ch:       make(chan CloneProgress, 64),
		done:     make(chan struct{}),
		interval: interval,
	}
	go func() {
		defer close(e.done)
		for p := range e.ch {
			if cb != nil {
				cb(p)
			}
		}
	}()
	return e
}

// offer applies the rate gate — emit when the interval has elapsed since
// the last emission OR percent strictly advanced — and forwards without
// blocking. Dropped either way otherwise.
func (e *progressEmitter) offer(p CloneProgress) {
	if e.ctx != nil && e.ctx.Err() != nil {
		return
	}

	e.mu.Lock()
	now := time.Now()
	if now.Sub(e.lastEmit) < e.interval && p.Percent <= e.lastPercent {
		e.mu.Unlock()
		return
	}
	e.lastEmit = now
	e.lastPercent = p.Percent
	e.mu.Unlock()

	select {
	case e.ch <- p:
	default:
		// Host congested; progress is best-effort.
	}
}

// finish delivers one terminal record past the rate gate, then drains the
// consumer. Must not be called while the transfer is still writing.
func (e *progressEmitter) finish(p CloneProgress) {
	e.ch <- p
	e.close()
}

func (e *progressEmitter) close() {
	close(e.ch)
	<-e.done
}

// counterLine matches progress lines of the form
// "Receiving objects:  42% (12/29)" or "Resolving deltas: 100% (7/7), done."
var counterLine = regexp.MustCompile(`\((\d+)/(\d+)\)`)

// sidebandParser translates the transfer's push-based text progress stream
// into counter updates. go-git surfaces progress as lines written to an
// io.Writer; each completed line (\n or \r terminated) that carries a
// "(current/total)" counter updates either the object or the delta
// counters, keyed on whether the line talks about deltas.
type sidebandParser struct {
	buf    bytes.Buffer
	state  transferState
	onTick func(transferState)
}

func newSidebandParser(onTick func(transferState)) *sidebandParser {
	return &sidebandParser{onTick: onTick}
}

func (p *sidebandParser) Write(data []byte) (int, error) {
	p.buf.Write(data)
	for {
		line, ok := p.nextLine()
		if !ok {
			break
		}
		p.parseLine(line)
	}
	return len(data), nil
}

// nextLine pops one complete line from the buffer. Progress streams
// terminate in-place updates with \r and final lines with \n; both count.
func (p *sidebandParser) nextLine() (string, bool) {
	raw := p.buf.Bytes()
	idx := bytes.IndexAny(raw, "\r\n")
	if idx < 0 {
		return "", false
	}
	line := string(raw[:idx])
	p.buf.Next(idx + 1)
	return line, true
}

func (p *sidebandParser) parseLine(line string) {
	line = strings.TrimPrefix(strings.TrimSpace(line), "remote: ")
	m := counterLine.FindStringSubmatch(line)
	if m == nil {
		return
	}
	current, err1 := strconv.Atoi(m[1])
	total, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || total < 0 {
		return
	}

	if strings.Contains(strings.ToLower(line), "delta") {
		p.state.indexed = current
		p.state.totalDeltas = total
	} else {
		p.state.received = current
		p.state.totalObjects = total
	}
	if p.onTick != nil {
		p.onTick(p.state)
	}
}
