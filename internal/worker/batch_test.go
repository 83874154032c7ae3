package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/claimline/claimline/internal/model"
)

// stubParser counts invocations and fails for paths it is told to
type stubParser struct {
	calls    int32
	failPath string
}

func (p *stubParser) ParseFile(ctx context.Context, path string) (*model.Report, error) {
	atomic.AddInt32(&p.calls, 1)
	if path == p.failPath {
		return nil, fmt.Errorf("parse %s: boom", path)
	}
	return &model.Report{Meta: model.ParseMeta{Source: path}}, nil
}

func TestProcessFiles(t *testing.T) {
	parser := &stubParser{}
	processor := NewBatchProcessor(parser, 3)

	paths := []string{"c.json", "a.json", "b.json"}
	results := processor.ProcessFiles(context.Background(), paths)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if atomic.LoadInt32(&parser.calls) != 3 {
		t.Errorf("Expected 3 parser calls, got %d", parser.calls)
	}

	// Results come back ordered by path regardless of completion order.
	for i, want := range []string{"a.json", "b.json", "c.json"} {
		if results[i].Path != want {
			t.Errorf("Expected %s at position %d, got %s", want, i, results[i].Path)
		}
		if results[i].Report == nil && results[i].Error == nil {
			t.Errorf("Expected a report or an error for %s", results[i].Path)
		}
	}
}

func TestProcessFiles_PartialFailure(t *testing.T) {
	parser := &stubParser{failPath: "b.json"}
	processor := NewBatchProcessor(parser, 2)

	results := processor.ProcessFiles(context.Background(), []string{"a.json", "b.json"})

	if results[0].Error != nil {
		t.Errorf("Expected a.json to succeed, got %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("Expected b.json to fail")
	}
	if results[1].GetError() == nil {
		t.Error("Expected GetError to surface the failure")
	}
}

func TestProcessFiles_Empty(t *testing.T) {
	processor := NewBatchProcessor(&stubParser{}, 2)
	if results := processor.ProcessFiles(context.Background(), nil); results != nil {
		t.Errorf("Expected nil for no input, got %v", results)
	}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.csv", "c.xlsx", "notes.txt", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "d.json"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	paths, err := CollectFiles(dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 4 {
		t.Fatalf("Expected 4 export files, got %d: %v", len(paths), paths)
	}
	for _, path := range paths {
		ext := filepath.Ext(path)
		if ext != ".json" && ext != ".csv" && ext != ".xlsx" {
			t.Errorf("Expected only export extensions, got %s", path)
		}
	}
}

func TestCollectFiles_SingleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	paths, err := CollectFiles(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("Expected the file itself, got %v", paths)
	}
}

func TestCollectFiles_Missing(t *testing.T) {
	if _, err := CollectFiles("/nonexistent/dir"); err == nil {
		t.Fatal("Expected error for missing target")
	}
}
