package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/notediagram/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates while a render runs and shows the pass state it has
// reached. It stops on its own when ctx is cancelled.
//
// Spinner implements observability.PassHooks; [Spinner.Watch] installs it
// for the duration of a render.
type Spinner struct {
	observability.NoopPassHooks

	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	stage   string
	width   int
}

// newSpinner creates a spinner writing to w.
func newSpinner(ctx context.Context, w io.Writer, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
}

// SetStage updates the state shown after the message.
func (s *Spinner) SetStage(stage string) {
	s.mu.Lock()
	s.stage = stage
	s.mu.Unlock()
}

// OnTransition implements observability.PassHooks.
func (s *Spinner) OnTransition(_ context.Context, _, to string) {
	s.SetStage(to)
}

// Watch routes pass transitions to the spinner until the returned func is
// called.
func (s *Spinner) Watch() (restore func()) {
	prev := observability.Pass()
	observability.SetPassHooks(s)
	return func() { observability.SetPassHooks(prev) }
}

func (s *Spinner) line(frame string) string {
	text := s.message
	if s.stage != "" {
		text += " · " + s.stage
	}
	return styleIconSpinner.Render(frame) + " " + StyleDim.Render(text)
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.mu.Lock()
				l := s.line(spinnerFrames[i%len(spinnerFrames)])
				s.width = max(s.width, len(l))
				fmt.Fprintf(s.w, "\r%s", l)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}
