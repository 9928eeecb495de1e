package harness

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mononoke-scm/testharness/logging"
)

const ledgerFileName = "daemon.pids"

// RunContext owns everything that is scoped to a single test run: a scratch
// directory, the output sink for service logs, and the process ledger. Two
// runs executing in parallel get disjoint directories and ledgers, so they
// can never observe each other's processes.
type RunContext struct {
	// ID uniquely identifies this run; it is part of the run directory name.
	ID string

	// Dir is the run-scoped scratch directory. The context never deletes it:
	// the ledger file inside must survive until external teardown has
	// consumed it.
	Dir string

	Sink   *OutputSink
	Ledger *ProcessLedger

	logger logging.Logger
}

// NewRunContext creates the run directory under root, or under the system
// temp directory when root is empty.
func NewRunContext(root string, logger logging.Logger) (*RunContext, error) {
	if root == "" {
		root = os.TempDir()
	}
	if logger == nil {
		logger = logging.NullLogger()
	}

	id := uuid.NewString()
	dir := filepath.Join(root, "mononoke-run-"+id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	sink, err := NewOutputSink(filepath.Join(dir, "logs"))
	if err != nil {
		return nil, err
	}

	logger.Printf("run %s: scratch directory %s", id, dir)

	return &RunContext{
		ID:     id,
		Dir:    dir,
		Sink:   sink,
		Ledger: NewProcessLedger(filepath.Join(dir, ledgerFileName)),
		logger: logger,
	}, nil
}

// DaemonManager returns a manager that records launches in this run's ledger.
func (c *RunContext) DaemonManager() *DaemonManager {
	return NewDaemonManager(c.Ledger, c.logger)
}
