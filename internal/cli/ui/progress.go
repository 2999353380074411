package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is an indeterminate progress indicator for operations whose
// length is unknown, such as the initial describe calls during sync.
type Spinner struct {
	writer   io.Writer
	interval time.Duration

	mu      sync.RWMutex
	message string

	done   chan struct{}
	wg     sync.WaitGroup
	active bool
}

// NewSpinner creates a spinner showing the given message.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		writer:   w,
		message:  message,
		interval: 100 * time.Millisecond,
	}
}

// Start begins animating. Calling Start on a running spinner is a
// no-op.
func (s *Spinner) Start() {
	if s.active {
		return
	}
	s.active = true
	s.done = make(chan struct{})
	s.wg.Add(1)
	go s.animate()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	if !s.active {
		return
	}
	s.active = false
	close(s.done)
	s.wg.Wait()
	fmt.Fprint(s.writer, "\r\033[K")
}

// UpdateMessage swaps the text shown next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Success stops the spinner and prints a green check line.
func (s *Spinner) Success(message string) {
	s.Stop()
	color.New(color.FgGreen, color.Bold).Fprintf(s.writer, "✓ %s\n", message)
}

// Fail stops the spinner and prints a red cross line.
func (s *Spinner) Fail(message string) {
	s.Stop()
	color.New(color.FgRed, color.Bold).Fprintf(s.writer, "✗ %s\n", message)
}

func (s *Spinner) animate() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	cyan := color.New(color.FgCyan)
	for i := 0; ; i++ {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.mu.RLock()
			msg := s.message
			s.mu.RUnlock()
			cyan.Fprintf(s.writer, "\r%s %s", spinnerFrames[i%len(spinnerFrames)], msg)
		}
	}
}

// ProgressBar tracks determinate progress, rendered in place as
// "message [████░░░░] current/total".
type ProgressBar struct {
	writer  io.Writer
	message string
	total   int
	current int
	width   int
}

// NewProgressBar creates a bar for total steps.
func NewProgressBar(w io.Writer, total int, message string) *ProgressBar {
	return &ProgressBar{writer: w, message: message, total: total, width: 30}
}

// Add advances the bar by n steps and redraws it.
func (p *ProgressBar) Add(n int) {
	p.current += n
	if p.current > p.total {
		p.current = p.total
	}
	p.render()
}

// Finish fills the bar and moves to the next line.
func (p *ProgressBar) Finish() {
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		return
	}
	filled := p.width * p.current / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)
	color.New(color.FgCyan).Fprintf(p.writer, "\r%s [%s] %d/%d", p.message, bar, p.current, p.total)
}
