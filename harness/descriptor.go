package harness

import (
	"strings"

	"github.com/alessio/shellescape"
)

// ServiceDescriptor describes one background service immediately before it is
// launched. It is not modified once the process has started.
type ServiceDescriptor struct {
	// Name identifies the service category, e.g. "mononoke". It is used in
	// log messages and, by convention, as the log file name.
	Name string

	// Command is the path to the executable, or a bare name to be resolved
	// against PATH.
	Command string

	// Args are the arguments passed to the executable, not including the
	// command itself.
	Args []string

	// LogPath is the file that receives the process's combined stdout and
	// stderr, opened in append mode.
	LogPath string

	// SocketPath is the filesystem object whose existence signals that the
	// service is ready. The service creates it; the harness only polls for it.
	SocketPath string
}

// CommandLine renders the command for log output, quoting each argument so the
// line can be pasted into a shell when reproducing a failure by hand.
func (d ServiceDescriptor) CommandLine() string {
	parts := []string{shellescape.Quote(d.Command)}
	for _, a := range d.Args {
		parts = append(parts, shellescape.Quote(a))
	}
	return strings.Join(parts, " ")
}
