// Package fixtures contains the test-facing entry points of the harness. Each
// entry point composes the lower-level pieces: the config generator writes a
// repository's hgrc, the daemon manager launches the backend service pointed
// at it, and the poller blocks until the service's socket file appears.
//
// Infrastructure that is not specific to the Mononoke domain, such as process
// launching and readiness polling, is in the lower-level harness package.
package fixtures

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mononoke-scm/testharness/config"
	"github.com/mononoke-scm/testharness/harness"
	"github.com/mononoke-scm/testharness/hgconfig"
	"github.com/mononoke-scm/testharness/logging"
)

// Repository layout conventions shared with the backend service.
const (
	// SocketFileName is the endpoint artifact the server creates under a
	// repository's .hg directory once it has bound its listener. Its
	// existence, not its content, is the readiness signal.
	SocketFileName = "mononoke.sock"

	serverLogCategory = "mononoke"
	importLogCategory = "blobimport"
)

// Post-import directory skeleton created by Blobimport.
var postImportDirs = []string{"books", "heads"}

// SocketPath returns where the server for repoPath is expected to create its
// readiness socket.
func SocketPath(repoPath string) string {
	return filepath.Join(repoPath, ".hg", SocketFileName)
}

// HgrcPath returns the configuration file for repoPath.
func HgrcPath(repoPath string) string {
	return filepath.Join(repoPath, ".hg", "hgrc")
}

// ServiceState tracks one managed service through its lifecycle.
type ServiceState int

const (
	NotStarted ServiceState = iota
	// LaunchFailed is terminal: the process never existed, so there is
	// nothing to poll for and nothing in the ledger.
	LaunchFailed
	Launched
	Ready
	// TimedOut means the poll budget ran out. The process is still running
	// (as far as the harness knows) and stays in the ledger for teardown; a
	// slow-but-healthy service must not be killed mid-startup.
	TimedOut
)

func (s ServiceState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case LaunchFailed:
		return "launch failed"
	case Launched:
		return "launched"
	case Ready:
		return "ready"
	case TimedOut:
		return "timed out"
	default:
		return "unknown"
	}
}

// Service is the record of one managed background service.
type Service struct {
	Name    string
	State   ServiceState
	Process *harness.Process
}

// Harness ties one test run's context and configuration together and exposes
// the named operations the tests call.
type Harness struct {
	cfg     config.HarnessConfig
	run     *harness.RunContext
	daemons *harness.DaemonManager
	poller  harness.Poller
	logger  logging.Logger
}

func New(cfg config.HarnessConfig, run *harness.RunContext, logger logging.Logger) *Harness {
	if logger == nil {
		logger = logging.NullLogger()
	}
	return &Harness{
		cfg:     cfg,
		run:     run,
		daemons: run.DaemonManager(),
		poller: harness.Poller{
			Interval: cfg.PollInterval(),
			Attempts: cfg.Poll.Attempts,
			Logger:   logger,
		},
		logger: logger,
	}
}

// Run returns the run context this harness operates in.
func (h *Harness) Run() *harness.RunContext {
	return h.run
}

// StartServer launches the backend server for repoPath and blocks until its
// socket file appears or the poll budget runs out. The returned Service is in
// state Ready, TimedOut, or LaunchFailed; only LaunchFailed comes with a
// non-nil error. A TimedOut service is left running and remains in the ledger.
func (h *Harness) StartServer(repoPath string, extraArgs ...string) (*Service, error) {
	svc := &Service{Name: serverLogCategory}

	args := append([]string(nil), h.cfg.Server.Args...)
	args = append(args, extraArgs...)
	args = append(args, repoPath)

	desc := harness.ServiceDescriptor{
		Name:       serverLogCategory,
		Command:    h.cfg.Server.Binary,
		Args:       args,
		LogPath:    h.run.Sink.PathFor(serverLogCategory),
		SocketPath: SocketPath(repoPath),
	}

	p, err := h.daemons.Launch(desc)
	if err != nil {
		svc.State = LaunchFailed
		return svc, err
	}
	svc.Process = p
	svc.State = Launched

	if h.poller.Wait(desc.SocketPath) == harness.Ready {
		svc.State = Ready
	} else {
		svc.State = TimedOut
	}
	return svc, nil
}

// AwaitReady blocks until the artifact at path exists, using this harness's
// poll bounds. It can be called any number of times; once the artifact exists
// it returns Ready immediately.
func (h *Harness) AwaitReady(path string) harness.Status {
	return h.poller.Wait(path)
}

// ConfigureRepo appends a role-specific configuration block to the
// repository's hgrc, creating the .hg directory if needed. Calling it again
// for the same repository appends another block; it never rewrites earlier
// ones.
func (h *Harness) ConfigureRepo(repoPath string, role hgconfig.Role, opts hgconfig.Options) error {
	hgrc := HgrcPath(repoPath)
	if err := os.MkdirAll(filepath.Dir(hgrc), 0755); err != nil {
		return err
	}
	h.logger.Printf("configuring %s as %s", repoPath, role)
	return hgconfig.Append(hgrc, hgconfig.Generate(role, opts))
}

// Blobimport runs the legacy-repository import binary to completion, with its
// output captured in the import log, and then creates the post-import
// directory skeleton under dataDir. The skeleton is created even when the
// import exits non-zero; downstream fixtures expect the directories to exist
// after a partial import, so a failed import shows up in the log rather than
// here. The returned error covers only the skeleton creation.
func (h *Harness) Blobimport(srcRepoPath, dataDir string, extraArgs ...string) error {
	logFile, err := harness.AppendFile(h.run.Sink.PathFor(importLogCategory))
	if err != nil {
		return err
	}

	args := append([]string(nil), h.cfg.Import.Args...)
	args = append(args, extraArgs...)
	args = append(args, srcRepoPath, dataDir)

	cmd := exec.Command(h.cfg.Import.Binary, args...)
	cmd.Stdin = nil
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	h.logger.Printf("importing %s into %s", srcRepoPath, dataDir)
	if err := cmd.Run(); err != nil {
		h.logger.Printf("blobimport did not succeed: %s (see %s)", err, h.run.Sink.PathFor(importLogCategory))
	}
	logFile.Close()

	for _, d := range postImportDirs {
		if err := os.MkdirAll(filepath.Join(dataDir, d), 0755); err != nil {
			return err
		}
	}
	return nil
}

// Apply configures every repository in the manifest whose name passes the
// filter, in manifest order, and reports per-repository results. A failing
// repository does not stop the remaining ones.
func (h *Harness) Apply(m config.Manifest, filter Filter) Results {
	var results Results
	for _, repo := range m.Repos {
		if filter != nil && !filter(repo.Name) {
			continue
		}
		// The role was validated when the manifest was loaded.
		role, err := hgconfig.ParseRole(repo.Role)
		if err == nil {
			err = h.ConfigureRepo(repo.Path, role, repo.Options())
		}
		step := StepResult{Repo: repo.Name, Role: role, Err: err}
		results.Steps = append(results.Steps, step)
		if err != nil {
			results.Failures = append(results.Failures, step)
		}
	}
	return results
}
