package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"
)

const tableMode os.FileMode = 0o644

// CSVWriter writes one table to a CSV file. Rows go to a temporary sibling
// file that only replaces the destination on Commit, so a failed run never
// leaves a truncated table behind.
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
	closed bool
}

// NewCSVWriter creates the temporary file next to path and writes the
// header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("csv: create temp file for %q: %w", path, err)
	}

	c := &CSVWriter{path: path, file: f, writer: csv.NewWriter(f)}
	if err := c.writer.Write(header); err != nil {
		return nil, multierr.Append(fmt.Errorf("csv: write header: %w", err), c.Close())
	}
	return c, nil
}

// Write appends one data row.
func (c *CSVWriter) Write(row []string) error {
	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}
	c.rows++
	return nil
}

// Rows is the number of data rows written so far.
func (c *CSVWriter) Rows() int { return c.rows }

// Path is the final destination of the table.
func (c *CSVWriter) Path() string { return c.path }

// Commit flushes and closes the temporary file and moves it into place.
func (c *CSVWriter) Commit() error {
	if c.closed {
		return fmt.Errorf("csv: %q already closed", c.path)
	}

	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return multierr.Append(fmt.Errorf("csv: flush %q: %w", c.path, err), c.Close())
	}
	if err := c.file.Sync(); err != nil {
		return multierr.Append(fmt.Errorf("csv: sync %q: %w", c.path, err), c.Close())
	}
	// CreateTemp opens 0600; published tables are world-readable.
	if err := c.file.Chmod(tableMode); err != nil {
		return multierr.Append(fmt.Errorf("csv: chmod %q: %w", c.path, err), c.Close())
	}

	c.closed = true
	tmp := c.file.Name()
	if err := c.file.Close(); err != nil {
		return multierr.Append(fmt.Errorf("csv: close %q: %w", c.path, err), removeTemp(tmp))
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return multierr.Append(fmt.Errorf("csv: rename into %q: %w", c.path, err), removeTemp(tmp))
	}
	return nil
}

// Close discards the temporary file unless Commit already succeeded. It is
// safe to defer right after NewCSVWriter.
func (c *CSVWriter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	tmp := c.file.Name()
	return multierr.Append(c.file.Close(), removeTemp(tmp))
}

func removeTemp(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("csv: remove temp file: %w", err)
	}
	return nil
}
