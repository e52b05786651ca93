package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/photobooth/pkg/frame"
	"github.com/matzehuels/photobooth/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerTick = 80 * time.Millisecond

// Spinner animates a status line with the elapsed time while a collage is
// loaded or rendered. The message can change as the work moves through its
// stages. It stops when its context is cancelled.
type Spinner struct {
	out    io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time

	mu      sync.Mutex
	message string
	width   int // widest line written so far

	started  bool
	stopped  chan struct{}
	stopOnce sync.Once
}

// newSpinner creates a spinner writing to out.
func newSpinner(ctx context.Context, out io.Writer, message string) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.start = time.Now()
	s.mu.Unlock()

	go func() {
		defer close(s.stopped)
		t := time.NewTicker(spinnerTick)
		defer t.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-t.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// SetMessage replaces the status text.
func (s *Spinner) SetMessage(msg string) {
	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
}

// Stage adapts the spinner to a pipeline progress callback.
func (s *Spinner) Stage(def frame.Definition) pipeline.ProgressFunc {
	return func(stage pipeline.Stage, n int) {
		s.SetMessage(stageMessage(def, stage, n))
	}
}

func (s *Spinner) draw(glyph string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := time.Since(s.start).Round(100 * time.Millisecond)
	line := fmt.Sprintf("%s %s", s.message, StyleDim.Render("("+elapsed.String()+")"))
	if n := len(line) + 2; n > s.width {
		s.width = n
	}
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(glyph), line)
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.stopped
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		}
	})
}

// StopWithError stops the spinner and prints msg as a failure.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	fmt.Fprintln(s.out, styleIconError.Render(iconError)+" "+msg)
}

// Cancelled reports whether the command's context was cancelled, as
// opposed to the spinner being stopped.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// stageMessage describes a pipeline stage for the status line.
func stageMessage(def frame.Definition, stage pipeline.Stage, n int) string {
	switch stage {
	case pipeline.StageDecode:
		return fmt.Sprintf("Decoding %d photos...", n)
	case pipeline.StageEdit:
		return fmt.Sprintf("Applying %d slot edits...", n)
	case pipeline.StageExport:
		return fmt.Sprintf("Composing %s (%d formats)...", def.Name, n)
	}
	return string(stage) + "..."
}
