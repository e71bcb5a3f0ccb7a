package ssh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source identifies local data to transfer: either an existing file
// referenced by path, or in-memory content with an optional name hint.
type Source struct {
	path string
	r    io.Reader
	name string
}

// File returns a Source referring to an existing local file. The file is
// handed to scp as-is, no copy is made.
func File(path string) Source {
	return Source{path: path}
}

// Content returns a Source backed by in-memory data, read from the
// reader's current position to its end during staging.
//
// The name is used as the staged file name, which scp preserves when the
// remote target is a directory. An empty name yields a generated
// "blob-N" name, numbered by position in the source list.
func Content(r io.Reader, name string) Source {
	return Source{r: r, name: name}
}

// stage materializes sources into concrete local paths. Path sources pass
// through unchanged; content sources are written to files under a fresh
// temporary directory with restrictive permissions.
//
// The returned cleanup removes everything stage created and must run on
// every exit path, success or failure.
func stage(sources []Source) (paths []string, cleanup func(), err error) {
	var tmpDir string
	cleanup = func() {
		if tmpDir != "" {
			os.RemoveAll(tmpDir)
		}
	}

	for i, src := range sources {
		if src.path != "" {
			paths = append(paths, src.path)
			continue
		}
		if src.r == nil {
			cleanup()
			return nil, noop, fmt.Errorf("source %d has neither a path nor content", i+1)
		}

		if tmpDir == "" {
			tmpDir, err = os.MkdirTemp("", "sshwrap-")
			if err != nil {
				return nil, noop, fmt.Errorf("failed to create staging directory: %w", err)
			}
		}

		name := src.name
		if name == "" {
			name = fmt.Sprintf("blob-%d", i+1)
		}
		staged := filepath.Join(tmpDir, filepath.Base(name))

		if err := writeStaged(staged, src.r); err != nil {
			cleanup()
			return nil, noop, err
		}
		paths = append(paths, staged)
	}

	return paths, cleanup, nil
}

// writeStaged writes the reader's remaining bytes to path, readable by
// the owner only.
func writeStaged(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create staged file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("failed to write staged file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write staged file %s: %w", path, err)
	}
	return nil
}

func noop() {}
