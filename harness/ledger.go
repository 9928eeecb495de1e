package harness

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// ProcessLedger records the PID of every service launched during a test run.
// It is backed by a flat text file, one PID per line, which an external
// teardown step reads at the end of the run to terminate everything that was
// started. The ledger only ever appends: entries are never removed or
// compacted while the run is in progress.
//
// Each test run must use its own ledger instance (and file); a ledger is never
// shared across concurrently executing runs.
type ProcessLedger struct {
	path string
	lock sync.Mutex
	pids []int
}

func NewProcessLedger(path string) *ProcessLedger {
	return &ProcessLedger{path: path}
}

func (l *ProcessLedger) Path() string {
	return l.path
}

// Append records a PID in memory and in the ledger file. The file is opened
// and closed per write, so every recorded PID is on disk for teardown even if
// the harness itself later crashes.
func (l *ProcessLedger) Append(pid int) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	f, err := AppendFile(l.path)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strconv.Itoa(pid) + "\n"); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	l.pids = append(l.pids, pid)
	return nil
}

// PIDs returns the recorded PIDs in launch order.
func (l *ProcessLedger) PIDs() []int {
	l.lock.Lock()
	ret := append([]int(nil), l.pids...)
	l.lock.Unlock()
	return ret
}

// ReadLedger parses a ledger file the way the teardown step does. Blank lines
// are ignored; anything else must be a decimal PID.
func ReadLedger(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pids []int
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pid, err := strconv.Atoi(line)
		if err != nil {
			return nil, err
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
