package harness

import (
	"fmt"
	"os/exec"
	"syscall"

	"github.com/mononoke-scm/testharness/logging"
)

// LaunchError reports a service that could not be started at all (missing
// binary, permission problem). It is returned synchronously from Launch so a
// failed start is never mistaken for a service that is merely slow to become
// ready.
type LaunchError struct {
	Service string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("could not start %s: %s", e.Service, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Process is a handle to a launched background service. The harness never
// waits for the process to exit; ownership of the handle passes to whatever
// teardown routine the test run registers.
type Process struct {
	Descriptor ServiceDescriptor
	PID        int

	cmd *exec.Cmd
}

// Alive reports whether the process still exists, using a signal-0 probe.
func (p *Process) Alive() bool {
	return p.cmd.Process.Signal(syscall.Signal(0)) == nil
}

// Kill terminates the process group immediately. The harness itself never
// calls this on a service that merely timed out during startup; it exists for
// teardown routines and tests.
func (p *Process) Kill() error {
	return syscall.Kill(-p.PID, syscall.SIGKILL)
}

// DaemonManager starts services as detached background processes and records
// every successful launch in a ProcessLedger.
type DaemonManager struct {
	ledger *ProcessLedger
	logger logging.Logger
}

func NewDaemonManager(ledger *ProcessLedger, logger logging.Logger) *DaemonManager {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &DaemonManager{ledger: ledger, logger: logger}
}

// Launch starts the described service exactly once. The caller does not block
// on process exit; combined stdout and stderr go to the descriptor's log file
// in append mode. On success the new PID has been appended to the ledger
// before Launch returns. There is no retry; retrying is the caller's decision.
func (m *DaemonManager) Launch(d ServiceDescriptor) (*Process, error) {
	logFile, err := AppendFile(d.LogPath)
	if err != nil {
		return nil, &LaunchError{Service: d.Name, Err: err}
	}

	cmd := exec.Command(d.Command, d.Args...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	// Own process group, so killing the service later cannot take the test
	// driver down with it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	m.logger.Printf("launching %s: %s (log: %s)", d.Name, d.CommandLine(), d.LogPath)

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, &LaunchError{Service: d.Name, Err: err}
	}
	// The child holds its own copy of the log file descriptor.
	logFile.Close()

	pid := cmd.Process.Pid
	if err := m.ledger.Append(pid); err != nil {
		return nil, &LaunchError{Service: d.Name, Err: fmt.Errorf("recording pid %d: %w", pid, err)}
	}
	m.logger.Printf("%s started with pid %d", d.Name, pid)

	// Reap the process when it eventually exits so long runs do not
	// accumulate zombies. The exit status is deliberately unobserved; a
	// service that dies shows up in its log file, not as an error here.
	go func() { _ = cmd.Wait() }()

	return &Process{Descriptor: d, PID: pid, cmd: cmd}, nil
}
