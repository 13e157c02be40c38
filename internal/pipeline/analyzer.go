package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/outliner/internal/chunker"
	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/dgallion1/outliner/internal/embedding"
	"github.com/dgallion1/outliner/internal/outline"
	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/rank"
)

// ErrMissingDocument is reported for a requested filename with no upload.
var ErrMissingDocument = errors.New("document not provided")

// DocError ties a failure to the document that caused it.
type DocError struct {
	Document string
	Err      error
}

func (e DocError) Error() string {
	return fmt.Sprintf("%s: %s", e.Document, e.Err)
}

func (e DocError) Unwrap() error { return e.Err }

// Analyzer wires the parsers, outline engines, chunker and ranker together.
// It is safe for concurrent use.
type Analyzer struct {
	outlines  *outline.Engine
	sections  *outline.Engine
	chunkCfg  chunker.Config
	ranker    *rank.Engine
	parseOpts parser.Options

	maxConcurrentDocs int
	backoff           func(attempt int) time.Duration
}

// NewAnalyzer builds an analyzer from the service configuration.
func NewAnalyzer(cfg config.Config, emb embedding.Embedder) *Analyzer {
	n := cfg.MaxConcurrentDocs
	if n <= 0 {
		n = 1
	}
	h := cfg.Heuristics
	return &Analyzer{
		outlines:          outline.NewEngine(h.Outline),
		sections:          outline.NewEngine(h.Sections),
		chunkCfg:          h.Chunker,
		ranker:            rank.NewEngine(emb, h.Rank),
		parseOpts:         parser.Options{PdftotextFallback: cfg.PDFFallbackPdftotext},
		maxConcurrentDocs: n,
		backoff:           Backoff,
	}
}

// Parse converts one uploaded file into a positioned document.
func (a *Analyzer) Parse(f File) (*doctree.Document, error) {
	p, err := parser.ForFile(f.Name, a.parseOpts)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(bytes.NewReader(f.Data), f.Name)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}

// Outline extracts the title and heading list of doc.
func (a *Analyzer) Outline(doc *doctree.Document) doctree.Outline {
	return a.outlines.Extract(doc)
}

// Sections parses and chunks files in parallel. The result keeps file order.
// A document that fails is reported in the returned DocErrors and the rest of
// the batch continues; only cancellation returns an error.
func (a *Analyzer) Sections(ctx context.Context, files []File) ([]doctree.Section, []DocError, error) {
	perDoc := make([][]doctree.Section, len(files))
	errs := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrentDocs)
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc, err := a.Parse(f)
			if err != nil {
				errs[i] = err
				return nil
			}
			perDoc[i] = chunker.Chunk(f.Name, a.sections.Extract(doc), doc, a.chunkCfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var sections []doctree.Section
	var docErrs []DocError
	for i, f := range files {
		if errs[i] != nil {
			docErrs = append(docErrs, DocError{Document: f.Name, Err: errs[i]})
			continue
		}
		sections = append(sections, perDoc[i]...)
	}
	return sections, docErrs, nil
}

// Collect orders files by the request's document list. Requested names
// without an upload come back as DocErrors; uploads the request does not name
// are ignored.
func (a *Analyzer) Collect(req *rank.Request, files []File) ([]File, []DocError) {
	byName := make(map[string]File, len(files))
	for _, f := range files {
		byName[f.Name] = f
	}
	var ordered []File
	var missing []DocError
	for _, name := range req.Filenames() {
		f, ok := byName[name]
		if !ok {
			missing = append(missing, DocError{Document: name, Err: ErrMissingDocument})
			continue
		}
		ordered = append(ordered, f)
	}
	return ordered, missing
}

// RankSections ranks already chunked sections. A transient embedding failure
// is retried after a backoff.
func (a *Analyzer) RankSections(ctx context.Context, req *rank.Request, sections []doctree.Section) (*rank.Output, error) {
	for attempt := 0; ; attempt++ {
		out, err := a.ranker.Rank(ctx, req, sections)
		if err == nil || !IsRetryable(err) || attempt >= MaxRetries {
			return out, err
		}
		select {
		case <-time.After(a.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Rank validates req, sections its documents and returns the ranked output.
// Per-document failures are returned alongside a usable result.
func (a *Analyzer) Rank(ctx context.Context, req *rank.Request, files []File) (*rank.Output, []DocError, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	ordered, docErrs := a.Collect(req, files)
	sections, parseErrs, err := a.Sections(ctx, ordered)
	if err != nil {
		return nil, nil, err
	}
	docErrs = append(docErrs, parseErrs...)
	out, err := a.RankSections(ctx, req, sections)
	if err != nil {
		return nil, docErrs, err
	}
	return out, docErrs, nil
}
