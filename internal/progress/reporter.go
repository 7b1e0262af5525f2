package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner provides feedback while a reply is in flight.
type Spinner interface {
	Start(message string)
	Stop()
}

// NewSpinner returns a TerminalSpinner, or a CISpinner when the CI
// environment variable is set so logs stay line-oriented.
func NewSpinner() Spinner {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CISpinner{}
	}
	return &TerminalSpinner{}
}

// TerminalSpinner animates an indeterminate spinner in the terminal.
type TerminalSpinner struct {
	bar  *progressbar.ProgressBar
	done chan struct{}
}

func (s *TerminalSpinner) Start(message string) {
	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.done = make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
}

func (s *TerminalSpinner) Stop() {
	if s.bar == nil {
		return
	}
	close(s.done)
	_ = s.bar.Finish()
	s.bar = nil
}

// CISpinner prints a single line per send, suitable for CI logs.
type CISpinner struct{}

func (s *CISpinner) Start(message string) {
	fmt.Fprintf(os.Stderr, "%s...\n", message)
}

func (s *CISpinner) Stop() {}
