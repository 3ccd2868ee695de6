// Package artifact persists extraction output to the filesystem.
//
// One Sink owns the output directory for a single run:
// <root>/<actionKey>_<chatId>/ with request/ and response/ subtrees and a
// REPORT.md at the top.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/papercomputeco/spool/pkg/extract"
)

// reportFile is the name of the report written at the run directory root.
const reportFile = "REPORT.md"

// Sink writes one extraction run's files and report under a run directory.
type Sink struct {
	dir string
}

// NewSink creates a Sink rooted at <outputRoot>/<actionKey>_<chatID>/.
// Nothing is created on disk until the first write.
func NewSink(outputRoot, actionKey, chatID string) *Sink {
	return &Sink{
		dir: filepath.Join(outputRoot, fmt.Sprintf("%s_%s", actionKey, chatID)),
	}
}

// Dir returns the run directory this sink writes into.
func (s *Sink) Dir() string {
	return s.dir
}

// WriteFiles persists a file mapping under the named subdirectory
// ("request" or "response"), creating parent directories as needed.
// Paths that would escape the run directory are rejected.
func (s *Sink) WriteFiles(subdir string, files extract.FileMapping) error {
	if len(files) == 0 {
		return nil
	}

	base := filepath.Join(s.dir, subdir)
	for relPath, content := range files {
		if !filepath.IsLocal(filepath.FromSlash(relPath)) {
			return fmt.Errorf("refusing to write non-local path %q", relPath)
		}

		target := filepath.Join(base, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", relPath, err)
		}
		if err := os.WriteFile(target, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write %s: %w", relPath, err)
		}
	}

	return nil
}

// WriteReport persists the report text as REPORT.md at the run directory root.
func (s *Sink) WriteReport(text string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}

	path := filepath.Join(s.dir, reportFile)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
