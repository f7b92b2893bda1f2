package report

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// LoadingMessages rotate while an analysis is outstanding.
var LoadingMessages = []string{
	"Analyzing ESG signals...",
	"Extracting environmental indicators...",
	"Assessing social impact...",
	"Reviewing governance factors...",
	"Scoring risk exposure...",
	"The AI service may be waking up, this can take a minute...",
}

// LoadingMessage returns the message shown at rotation step.
func LoadingMessage(step int) string {
	if step < 0 {
		step = 0
	}
	return LoadingMessages[step%len(LoadingMessages)]
}

// FormatElapsed formats a duration as MM:SS or HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// IsInteractive reports whether w is a terminal.
func IsInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Spinner shows the rotating loading message and an elapsed counter while
// a headless analyze call runs. It is silent when w is not a terminal.
type Spinner struct {
	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	writer   io.Writer
	interval time.Duration
	active   bool
	started  time.Time
	stop     chan struct{}
	done     chan struct{}
}

// NewSpinner creates a spinner writing to w. interval is the message
// rotation period.
func NewSpinner(w io.Writer, interval time.Duration) *Spinner {
	return newSpinner(w, interval, IsInteractive(w))
}

func newSpinner(w io.Writer, interval time.Duration, interactive bool) *Spinner {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Spinner{writer: w, interval: interval, active: interactive}
}

// Start begins rendering. Calling Start twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active || s.bar != nil {
		return
	}

	s.started = time.Now()
	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.writer),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription(s.describe(0)),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.bar, s.stop, s.done)
}

func (s *Spinner) describe(elapsed time.Duration) string {
	step := int(elapsed / s.interval)
	return fmt.Sprintf("%s %s", LoadingMessage(step), FormatElapsed(elapsed))
}

func (s *Spinner) run(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			bar.Describe(s.describe(time.Since(s.started)))
			_ = bar.Add(1)
		}
	}
}

// Stop halts the timers and clears the line. It is safe to call on a
// spinner that never started.
func (s *Spinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	close(s.stop)
	<-s.done
	_ = s.bar.Finish()
	s.bar = nil
}
