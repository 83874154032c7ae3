package worker

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/claimline/claimline/internal/model"
)

// Parser defines the interface for parsing a single claims export file
type Parser interface {
	ParseFile(ctx context.Context, path string) (*model.Report, error)
}

// ParseJob parses one export file
type ParseJob struct {
	Path   string
	Parser Parser
}

// Execute runs the parse job
func (j *ParseJob) Execute(ctx context.Context) Result {
	report, err := j.Parser.ParseFile(ctx, j.Path)
	return &ParseResult{
		Path:   j.Path,
		Report: report,
		Error:  err,
	}
}

// ParseResult represents the outcome of one file's parse
type ParseResult struct {
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the parse result
func (r *ParseResult) GetError() error {
	return r.Error
}

// BatchProcessor parses multiple export files concurrently
type BatchProcessor struct {
	parser      Parser
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(parser Parser, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		parser:      parser,
		concurrency: concurrency,
	}
}

// ProcessFiles parses the given files concurrently and returns results
// ordered by path for stable reporting.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*ParseResult {
	if len(paths) == 0 {
		return nil
	}

	pool := NewPool(b.concurrency)
	pool.Start()
	defer pool.Stop()

	stop := context.AfterFunc(ctx, pool.Stop)
	defer stop()

	for _, path := range paths {
		pool.Submit(&ParseJob{Path: path, Parser: b.parser})
	}

	raw := pool.Wait()
	results := make([]*ParseResult, 0, len(raw))
	for _, r := range raw {
		if parsed, ok := r.(*ParseResult); ok {
			results = append(results, parsed)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

// parseableExtensions are the export formats a batch run picks up
var parseableExtensions = map[string]bool{
	".json": true,
	".csv":  true,
	".xlsx": true,
}

// CollectFiles expands a batch argument into export file paths: a
// directory is walked for known extensions, a plain file is returned
// as-is.
func CollectFiles(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{arg}, nil
	}

	var paths []string
	err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if parseableExtensions[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
