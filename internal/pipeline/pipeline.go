// Package pipeline orchestrates the complete parse: read, decode,
// strategy dispatch, aggregation and report assembly, with a layered
// result cache keyed on file content.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claimline/claimline/internal/cache"
	"github.com/claimline/claimline/internal/errs"
	"github.com/claimline/claimline/internal/extract"
	"github.com/claimline/claimline/internal/ingest"
	"github.com/claimline/claimline/internal/model"
)

// maxFileBytes caps a single export file at 64 MB
const maxFileBytes = 64 << 20

// Pipeline orchestrates the complete parse process
type Pipeline struct {
	reader   *Reader
	registry *extract.Registry
	renderer *Renderer
	cache    cache.Cache
	config   *model.Config
}

// NewPipeline creates a new pipeline with the given configuration and
// claim type set.
func NewPipeline(cfg *model.Config, types []model.ClaimTypeConfig) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	return &Pipeline{
		reader:   NewReader(maxFileBytes),
		registry: extract.NewRegistry(types, cfg.Parser),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		cache:    store,
		config:   cfg,
	}
}

// ParseFile parses a single claim export file and returns a complete
// report. Cached results are returned when the file content is
// unchanged since the last parse.
func (p *Pipeline) ParseFile(ctx context.Context, path string) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := p.reader.Read(path)
	if err != nil {
		return nil, err
	}

	key := cache.Key(data)
	if p.cache != nil {
		if raw, ok := p.cache.Get(key); ok {
			var cached model.Report
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
			// Corrupt entry, fall through and reparse
			_ = p.cache.Delete(key)
		}
	}

	doc, err := p.decode(path, data)
	if err != nil {
		return nil, err
	}

	report, err := p.ParseDocument(doc, path)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		// TTL zero lets each cache layer apply its configured default.
		if raw, err := json.Marshal(report); err == nil {
			_ = p.cache.Set(key, raw, 0)
		}
	}
	return report, nil
}

// ParseDocument runs strategy dispatch and aggregation over an already
// decoded document. source labels the report's provenance.
func (p *Pipeline) ParseDocument(doc any, source string) (*model.Report, error) {
	claims, tier, warnings, err := p.registry.Extract(doc)
	if err != nil {
		return nil, err
	}

	timeline := extract.Aggregate(claims, p.config.Parser.Sort)

	return &model.Report{
		Meta: model.ParseMeta{
			RunID:    uuid.New(),
			Source:   source,
			Strategy: string(tier),
			ParsedAt: time.Now().UTC(),
			Warnings: warnings,
		},
		Timeline: timeline,
	}, nil
}

// Classify reports which strategy tier would handle the file without
// running extraction.
func (p *Pipeline) Classify(path string) (extract.Tier, error) {
	data, err := p.reader.Read(path)
	if err != nil {
		return extract.TierUnclassified, err
	}
	doc, err := p.decode(path, data)
	if err != nil {
		return extract.TierUnclassified, err
	}
	return p.registry.Classify(doc), nil
}

// decode turns raw file bytes into a document. JSON is the primary
// format; CSV and XLSX exports are converted to a document keyed by
// sheet name.
func (p *Pipeline) decode(path string, data []byte) (any, error) {
	if ingest.Supported(path) {
		doc, err := ingest.Document(path, data)
		if err != nil {
			return nil, errs.NewValidation("could not read tabular export", err).WithFile(path)
		}
		return doc, nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewValidation(
			fmt.Sprintf("invalid JSON: %v", err), err).WithFile(path)
	}
	return doc, nil
}

// ClearCache removes all cached parse results
func (p *Pipeline) ClearCache() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Clear()
}

// Renderer returns the pipeline's report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}
