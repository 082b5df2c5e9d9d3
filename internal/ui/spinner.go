package ui

import (
	"fmt"
	"os"
	"time"
)

var spinFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a minimal terminal spinner for operations that block the CLI,
// like pinging relays or waiting for a transaction hash.
type Spinner struct {
	msg  string
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner with the given message.
func NewSpinner(msg string) *Spinner {
	return &Spinner{msg: msg, stop: make(chan struct{}), done: make(chan struct{})}
}

// Start begins animating on stderr.
func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		i := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(os.Stderr, "\r\033[K")
				return
			case <-ticker.C:
				frame := StyleInfo.Render(spinFrames[i%len(spinFrames)])
				fmt.Fprintf(os.Stderr, "\r%s %s", frame, s.msg)
				i++
			}
		}
	}()
}

// Stop halts the spinner and clears its line.
func (s *Spinner) Stop() {
	close(s.stop)
	<-s.done
}
