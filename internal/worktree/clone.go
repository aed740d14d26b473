package worktree

import (
	"context"
	"time"

	gogit "github.com/go-git/go-git/v6"

	"github.com/worktrunk/worktrunk/internal/logger"
)

// defaultProgressInterval is the minimum spacing between time-gated
// progress emissions.
const defaultProgressInterval = 100 * time.Millisecond

// CloneOption adjusts clone behavior.
type CloneOption func(*cloneOptions)

type cloneOptions struct {
	progressInterval time.Duration
}

// WithProgressInterval overrides the 100ms time gate on progress emission.
func WithProgressInterval(d time.Duration) CloneOption {
	return func(o *cloneOptions) {
		if d > 0 {
			o.progressInterval = d
		}
	}
}

// CloneRepository clones the repository at url into targetPath, forwarding
// rate-limited transfer progress to cb, and returns the working directory
// path of the resulting clone. Only default ambient credentials are used;
// authentication material is the caller's concern.
//
// Progress delivery is best-effort and non-blocking; cb always receives at
// least one terminal record in phase "done" on success. Cancellation via
// ctx aborts the transfer.
func CloneRepository(ctx context.Context, url, targetPath string, cb ProgressFunc, opts ...CloneOption) (string, error) {
	options := cloneOptions{progressInterval: defaultProgressInterval}
	for _, opt := range opts {
		opt(&options)
	}

	emitter := newProgressEmitter(ctx, cb, options.progressInterval)
	parser := newSidebandParser(func(s transferState) {
		emitter.offer(s.record())
	})

	logger.Debug().
		Str("url", url).
		Str("target", targetPath).
		Msg("clone starting")

	repo, err := gogit.PlainCloneContext(ctx, targetPath, &gogit.CloneOptions{
		URL:      url,
		Progress: parser,
	})
	if err != nil {
		emitter.close()
		return "", newError(CodeGitError, err, "clone failed")
	}

	wt, err := repo.Worktree()
	if err != nil {
		emitter.close()
		return "", newError(CodeGitError, err, "cloned repository has no working directory")
	}
	workdir := wt.Filesystem().Root()

	// Terminal record: whatever counters the stream produced, the transfer
	// is complete.
	final := parser.state
	final.received = final.totalObjects
	final.indexed = final.totalDeltas
	emitter.finish(final.record())

	logger.Debug().
		Str("url", url).
		Str("workdir", workdir).
		Msg("clone finished")

	return trimTrailingSeparator(workdir), nil
}
