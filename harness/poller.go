package harness

import (
	"os"
	"time"

	"github.com/mononoke-scm/testharness/logging"
)

// Status is the outcome of a readiness wait.
type Status int

const (
	// Ready means the readiness artifact was observed.
	Ready Status = iota
	// TimedOut means the attempt budget ran out before the artifact
	// appeared. This is an ordinary status, not an error: the caller may
	// proceed and let a later operation fail with a more specific message,
	// or abort the test.
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Clock abstracts sleeping so poller tests can run without real delays.
type Clock interface {
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

func SystemClock() Clock { return systemClock{} }

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultPollAttempts = 50
)

// Poller waits for a readiness artifact to appear on disk. The interval is
// fixed rather than adaptive: the worst-case wait is exactly
// Attempts × Interval, which keeps test timing easy to reason about. The zero
// value polls with the defaults above (a worst case of about five seconds).
type Poller struct {
	Interval time.Duration
	Attempts int
	Clock    Clock
	Logger   logging.Logger
}

// Wait blocks until a filesystem object exists at path, checking once
// immediately and then once after each sleep. Only existence matters; the
// artifact's content is never read. Wait returns Ready as soon as the
// artifact is seen, with no trailing sleep, so calling it again after the
// artifact exists returns immediately.
func (p Poller) Wait(path string) Status {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = DefaultPollAttempts
	}
	clock := p.Clock
	if clock == nil {
		clock = SystemClock()
	}
	logger := p.Logger
	if logger == nil {
		logger = logging.NullLogger()
	}

	for {
		if _, err := os.Stat(path); err == nil {
			return Ready
		}
		if attempts == 0 {
			logger.Printf("gave up waiting for %s", path)
			return TimedOut
		}
		attempts--
		clock.Sleep(interval)
	}
}
