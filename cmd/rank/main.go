// Command rank runs persona-driven section ranking over document collections.
//
// With -collections it processes every Collection*/challenge1b_input.json
// below the directory, reading documents from the sibling PDFs/ folder and
// writing challenge1b_output.json next to the input. With -input it processes
// one request file.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/embedding"
	"github.com/dgallion1/outliner/internal/pipeline"
	"github.com/dgallion1/outliner/internal/rank"
)

const (
	inputName  = "challenge1b_input.json"
	outputName = "challenge1b_output.json"
	docsDir    = "PDFs"
)

func main() {
	collections := flag.String("collections", "", "directory containing Collection* folders")
	input := flag.String("input", "", "single request file")
	output := flag.String("output", "", "output file for -input (default: "+outputName+" beside the input)")
	docs := flag.String("docs", "", "document directory for -input (default: "+docsDir+"/ beside the input)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if (*collections == "") == (*input == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -collections or -input is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	stats := embedding.NewStats(time.Hour)
	emb, err := embedding.New(cfg.Embedding(), stats)
	if err != nil {
		log.Error("create embedder", "error", err)
		os.Exit(1)
	}
	if c, ok := emb.(*embedding.Client); ok {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := &runner{analyzer: pipeline.NewAnalyzer(cfg, emb), log: log}

	if *input != "" {
		base := filepath.Dir(*input)
		dir := *docs
		if dir == "" {
			dir = filepath.Join(base, docsDir)
		}
		dest := *output
		if dest == "" {
			dest = filepath.Join(base, outputName)
		}
		if err := r.run(ctx, *input, dir, dest); err != nil {
			log.Error("ranking failed", "input", *input, "error", err)
			os.Exit(1)
		}
		return
	}

	folders, err := filepath.Glob(filepath.Join(*collections, "Collection*"))
	if err != nil {
		log.Error("list collections", "error", err)
		os.Exit(1)
	}
	failed := 0
	for _, folder := range folders {
		in := filepath.Join(folder, inputName)
		if _, err := os.Stat(in); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := r.run(ctx, in, filepath.Join(folder, docsDir), filepath.Join(folder, outputName)); err != nil {
			log.Error("collection failed", "collection", filepath.Base(folder), "error", err)
			failed++
		}
	}
	log.Info("done", "collections", len(folders), "failed", failed, "embed_stats", stats.Snapshot())
	if failed > 0 {
		os.Exit(1)
	}
}

type runner struct {
	analyzer *pipeline.Analyzer
	log      *slog.Logger
}

func (r *runner) run(ctx context.Context, input, dir, dest string) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	var req rank.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var files []pipeline.File
	for _, name := range req.Filenames() {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			// Reported as a missing document by the analyzer.
			r.log.Warn("document unreadable", "document", name, "error", err)
			continue
		}
		files = append(files, pipeline.File{Name: name, Data: data})
	}

	start := time.Now()
	out, docErrs, err := r.analyzer.Rank(ctx, &req, files)
	if err != nil {
		return err
	}
	for _, de := range docErrs {
		r.log.Warn("document skipped", "document", de.Document, "error", de.Err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return err
	}
	r.log.Info("ranking written",
		"output", dest,
		"documents", len(files),
		"sections", len(out.ExtractedSections),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
