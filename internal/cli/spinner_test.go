package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/notediagram/pkg/observability"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerShowsStage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(context.Background(), &out, "Rendering arrow")
	s.SetStage("fitted")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()
	s.Stop()

	got := out.String()
	if !strings.Contains(got, "Rendering arrow · fitted") {
		t.Errorf("output %q missing stage", got)
	}
	if !strings.HasSuffix(got, "\r") {
		t.Error("line not cleared on stop")
	}
}

func TestSpinnerWatch(t *testing.T) {
	s := newSpinner(context.Background(), &syncBuffer{}, "x")
	restore := s.Watch()
	observability.Pass().OnTransition(context.Background(), "idle", "geometry-built")
	restore()
	observability.Pass().OnTransition(context.Background(), "geometry-built", "drawn")

	if s.stage != "geometry-built" {
		t.Errorf("stage = %q, want geometry-built", s.stage)
	}
	if _, ok := observability.Pass().(*Spinner); ok {
		t.Error("hooks not restored")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "x")
	s.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop hung after context cancel")
	}
}
