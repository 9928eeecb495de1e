package harness

import (
	"os"
	"path/filepath"
)

// OutputSink maps service categories to log files under a single run-scoped
// directory. Files are always opened in append mode, so restarting a service
// of the same category accumulates output rather than truncating it.
type OutputSink struct {
	dir string
}

func NewOutputSink(dir string) (*OutputSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &OutputSink{dir: dir}, nil
}

func (s *OutputSink) Dir() string {
	return s.dir
}

// PathFor returns the log file path for a service category. The file may not
// exist yet.
func (s *OutputSink) PathFor(category string) string {
	return filepath.Join(s.dir, category+".out")
}

// AppendFile opens path for appending, creating it if necessary.
func AppendFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}
