// Package cliutil provides output helpers shared by the CLI and the MCP server.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MrLipa/oasaggregate/document"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdoutPath is the special output path used to indicate writing to stdout.
const StdoutPath = "-"

// EncodeAggregate renders the aggregate as indented JSON or as YAML.
func EncodeAggregate(doc *document.Aggregate, format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return doc.MarshalIndent()
	case FormatYAML:
		return doc.MarshalYAMLBytes()
	default:
		return nil, fmt.Errorf("invalid format for document output: %s", format)
	}
}

// WriteOutput writes data to path, or to stdout when path is StdoutPath.
func WriteOutput(path string, data []byte, stdout io.Writer) error {
	if path == StdoutPath {
		_, err := stdout.Write(append(data, '\n'))
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}

// WriteFileAtomic creates the parent directories of path and replaces path
// with data via a temporary file and rename, so readers never see a
// partially written document.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// Writef writes formatted output to w. A failed write is reported on
// stderr instead of being returned, since there is nowhere else to send it.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
