package harness

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mononoke-scm/testharness/logging"
)

func newTestManager(t *testing.T) (*DaemonManager, *ProcessLedger, string) {
	t.Helper()
	dir := t.TempDir()
	ledger := NewProcessLedger(filepath.Join(dir, "daemon.pids"))
	return NewDaemonManager(ledger, logging.NullLogger()), ledger, dir
}

func TestLaunchRecordsPIDInLedger(t *testing.T) {
	m, ledger, dir := newTestManager(t)

	p, err := m.Launch(ServiceDescriptor{
		Name:    "sleeper",
		Command: "sleep",
		Args:    []string{"30"},
		LogPath: filepath.Join(dir, "sleeper.out"),
	})
	require.NoError(t, err)
	defer p.Kill()

	assert.Equal(t, []int{p.PID}, ledger.PIDs())
	assert.True(t, p.Alive())

	onDisk, err := ReadLedger(ledger.Path())
	require.NoError(t, err)
	assert.Equal(t, []int{p.PID}, onDisk)
}

func TestLaunchFailurePropagatesAndLedgerIsUnchanged(t *testing.T) {
	m, ledger, dir := newTestManager(t)

	_, err := m.Launch(ServiceDescriptor{
		Name:    "ghost",
		Command: filepath.Join(dir, "no-such-binary"),
		LogPath: filepath.Join(dir, "ghost.out"),
	})
	require.Error(t, err)

	var launchErr *LaunchError
	require.True(t, errors.As(err, &launchErr))
	assert.Equal(t, "ghost", launchErr.Service)

	assert.Empty(t, ledger.PIDs())
	_, statErr := os.Stat(ledger.Path())
	assert.True(t, os.IsNotExist(statErr), "ledger file should not have been created")
}

func TestLaunchRedirectsCombinedOutputToLogFile(t *testing.T) {
	m, _, dir := newTestManager(t)
	logPath := filepath.Join(dir, "echoer.out")

	_, err := m.Launch(ServiceDescriptor{
		Name:    "echoer",
		Command: "sh",
		Args:    []string{"-c", "echo to-stdout; echo to-stderr 1>&2"},
		LogPath: logPath,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil &&
			strings.Contains(string(data), "to-stdout") &&
			strings.Contains(string(data), "to-stderr")
	}, 5*time.Second, 20*time.Millisecond)
}

func TestLaunchAppendsToExistingLog(t *testing.T) {
	m, _, dir := newTestManager(t)
	logPath := filepath.Join(dir, "svc.out")
	require.NoError(t, os.WriteFile(logPath, []byte("earlier run\n"), 0644))

	_, err := m.Launch(ServiceDescriptor{
		Name:    "svc",
		Command: "sh",
		Args:    []string{"-c", "echo later run"},
		LogPath: logPath,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && strings.Contains(string(data), "later run")
	}, 5*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "earlier run")
}

func TestProcessAliveReflectsExit(t *testing.T) {
	m, _, dir := newTestManager(t)

	p, err := m.Launch(ServiceDescriptor{
		Name:    "quick",
		Command: "true",
		LogPath: filepath.Join(dir, "quick.out"),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return !p.Alive() },
		5*time.Second, 20*time.Millisecond)
}

func TestCommandLineIsShellQuoted(t *testing.T) {
	d := ServiceDescriptor{Command: "mononoke", Args: []string{"--repo", "my repo"}}
	assert.Equal(t, "mononoke --repo 'my repo'", d.CommandLine())
}
