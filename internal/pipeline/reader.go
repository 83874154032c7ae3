package pipeline

import (
	"fmt"
	"os"

	"github.com/claimline/claimline/internal/errs"
)

// Reader loads claim export files from disk
type Reader struct {
	maxBytes int64
}

// NewReader creates a new Reader. maxBytes of zero means no limit.
func NewReader(maxBytes int64) *Reader {
	return &Reader{maxBytes: maxBytes}
}

// Read loads the file at path and returns its raw contents. Failures
// are classified into file access errors with recovery suggestions.
func (r *Reader) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.NewFileAccess(path, err)
	}

	if r.maxBytes > 0 && info.Size() > r.maxBytes {
		perr := errs.NewValidation(
			fmt.Sprintf("file is %s, limit is %s", formatBytes(info.Size()), formatBytes(r.maxBytes)), nil)
		return nil, perr.WithFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.NewFileAccess(path, err)
	}
	return data, nil
}

func formatBytes(n int64) string {
	const mb = 1 << 20
	if n >= mb {
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	}
	return fmt.Sprintf("%d bytes", n)
}
