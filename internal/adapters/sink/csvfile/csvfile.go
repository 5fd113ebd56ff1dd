// Package csvfile writes the leaderboard as comma-separated text.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/okian/skillrank/internal/domain/types"
)

const (
	dirPermission  = 0o755
	filePermission = 0o644
)

// ErrWrite wraps every failure to produce the output file.
var ErrWrite = errors.New("csv sink: write failed")

// Sink writes the leaderboard to a file. The file is written next to its
// destination and renamed into place, so readers never see a partial report.
type Sink struct {
	path string
}

// New returns a sink targeting path.
func New(path string) *Sink {
	return &Sink{path: path}
}

// Name identifies the sink in logs and metrics.
func (s *Sink) Name() string { return "csv" }

// Write replaces the destination file with a header row followed by rows.
func (s *Sink) Write(_ context.Context, rows []types.Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := Encode(tmp, rows); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, err)
	}
	// CreateTemp opens the file 0600.
	if err := tmp.Chmod(filePermission); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

// Encode writes the header and rows to w. Columns follow the csv tags on
// types.Entry.
func Encode(w io.Writer, rows []types.Entry) error {
	if rows == nil {
		rows = []types.Entry{}
	}
	return gocsv.Marshal(rows, w)
}
