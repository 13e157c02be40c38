// Command outline writes a JSON outline for every supported document in a
// directory.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/config"
	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/pipeline"
)

func main() {
	in := flag.String("in", "/app/input", "directory of documents to outline")
	out := flag.String("out", "/app/output", "directory for <name>.json outlines")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load configuration", "error", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Error("create output directory", "error", err)
		os.Exit(1)
	}

	entries, err := os.ReadDir(*in)
	if err != nil {
		log.Error("read input directory", "error", err)
		os.Exit(1)
	}

	// Outlining never embeds.
	analyzer := pipeline.NewAnalyzer(cfg, nil)
	processed, failed := 0, 0
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupportedExtension(e.Name()) {
			continue
		}
		path := filepath.Join(*in, e.Name())
		dest := filepath.Join(*out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))+".json")
		if err := outlineFile(analyzer, path, dest); err != nil {
			log.Error("outline failed", "file", e.Name(), "error", err)
			failed++
			continue
		}
		log.Info("outline written", "file", e.Name(), "output", dest)
		processed++
	}

	if processed+failed == 0 {
		log.Warn("no supported documents found", "dir", *in)
	}
	log.Info("done", "processed", processed, "failed", failed)
}

func outlineFile(a *pipeline.Analyzer, path, dest string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := a.Parse(pipeline.File{Name: filepath.Base(path), Data: data})
	if err != nil {
		return err
	}
	return writeJSON(dest, a.Outline(doc), "    ")
}

func writeJSON(path string, v any, indent string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
