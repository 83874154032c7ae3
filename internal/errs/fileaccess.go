package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
)

// AccessKind classifies an OS-level file access failure
type AccessKind string

const (
	AccessNotFound         AccessKind = "not-found"
	AccessPermissionDenied AccessKind = "permission-denied"
	AccessOutOfSpace       AccessKind = "out-of-space"
	AccessOutOfMemory      AccessKind = "out-of-memory"
	AccessNetworkUnreach   AccessKind = "network-unreachable"
	AccessUnknown          AccessKind = "unknown"
)

// FileAccessError wraps an OS read failure with its classification
type FileAccessError struct {
	ParseError
	Kind AccessKind
}

// NewFileAccess classifies err and builds the matching failure value.
func NewFileAccess(path string, err error) *FileAccessError {
	kind := classifyAccess(err)
	return &FileAccessError{
		ParseError: ParseError{
			Message:     accessMessage(kind, path),
			Code:        CodeFileAccess,
			FilePath:    path,
			Cause:       err,
			Suggestions: accessSuggestions(kind),
			Details:     map[string]string{"kind": string(kind)},
		},
		Kind: kind,
	}
}

func classifyAccess(err error) AccessKind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return AccessNotFound
	case errors.Is(err, fs.ErrPermission):
		return AccessPermissionDenied
	case errors.Is(err, syscall.ENOSPC):
		return AccessOutOfSpace
	case errors.Is(err, syscall.ENOMEM):
		return AccessOutOfMemory
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return AccessNetworkUnreach
	default:
		return AccessUnknown
	}
}

func accessMessage(kind AccessKind, path string) string {
	switch kind {
	case AccessNotFound:
		return fmt.Sprintf("file not found: %s", path)
	case AccessPermissionDenied:
		return fmt.Sprintf("permission denied reading %s", path)
	case AccessOutOfSpace:
		return fmt.Sprintf("device out of space while reading %s", path)
	case AccessOutOfMemory:
		return fmt.Sprintf("out of memory while reading %s", path)
	case AccessNetworkUnreach:
		return fmt.Sprintf("network path unreachable: %s", path)
	default:
		return fmt.Sprintf("unable to read %s", path)
	}
}

func accessSuggestions(kind AccessKind) []string {
	switch kind {
	case AccessNotFound:
		return []string{
			"Check the file path for typos",
			"Verify the export file still exists at that location",
		}
	case AccessPermissionDenied:
		return []string{
			"Check read permissions on the file",
			"Run from an account with access to the export directory",
		}
	case AccessOutOfSpace:
		return []string{"Free disk space and retry"}
	case AccessOutOfMemory:
		return []string{
			"Close other applications and retry",
			"Split very large exports into smaller files",
		}
	case AccessNetworkUnreach:
		return []string{
			"Check connectivity to the network share",
			"Copy the file to a local disk and retry",
		}
	default:
		return []string{"Retry the operation; inspect the wrapped cause if it persists"}
	}
}
