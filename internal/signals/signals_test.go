package signals

import (
	"context"
	"testing"
	"time"
)

func TestSetupSignalContext(t *testing.T) {
	parent, parentCancel := context.WithCancel(context.Background())

	ctx, cancel := SetupSignalContext(parent)
	defer cancel()

	// Context should not be done yet
	select {
	case <-ctx.Done():
		t.Fatal("context should not be done yet")
	default:
	}

	// Cancelling parent should cancel derived context
	parentCancel()

	select {
	case <-ctx.Done():
		// expected
	case <-time.After(time.Second):
		t.Fatal("context should be done after parent cancel")
	}
}

func TestSetupSignalContext_ExplicitCancel(t *testing.T) {
	ctx, cancel := SetupSignalContext(context.Background())

	cancel()

	select {
	case <-ctx.Done():
		// expected
	case <-time.After(time.Second):
		t.Fatal("context should be done after cancel")
	}
}
