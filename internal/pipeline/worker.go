package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Worker processes a single analysis job.
type Worker struct {
	analyzer *Analyzer
	log      *slog.Logger
}

func NewWorker(analyzer *Analyzer, log *slog.Logger) *Worker {
	return &Worker{analyzer: analyzer, log: log}
}

// Process runs the job to a terminal status.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "kind", job.Kind)
	switch job.Kind {
	case KindOutline:
		w.processOutline(log, job)
	case KindRank:
		w.processRank(ctx, log, job)
	default:
		job.AddError(fmt.Sprintf("unknown job kind %q", job.Kind))
		job.SetStatus(StatusFailed, "dispatch")
	}
}

func (w *Worker) processOutline(log *slog.Logger, job *Job) {
	files := job.Files()
	if len(files) != 1 {
		job.AddError(fmt.Sprintf("expected 1 file, got %d", len(files)))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	f := files[0]
	log = log.With("doc_id", job.DocID, "filename", f.Name)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	doc, err := w.analyzer.Parse(f)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	job.AddDocumentsProcessed(1)

	// Phase 2: Outline
	job.SetStatus(StatusOutlining, "outlining")
	out := w.analyzer.Outline(doc)
	log.Info("outline extracted", "pages", doc.PageCount(), "headings", len(out.Headings))

	job.SetResult(out)
	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) processRank(ctx context.Context, log *slog.Logger, job *Job) {
	req := job.Request()
	if err := req.Validate(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "validating")
		return
	}
	log = log.With("persona", req.Role())

	// Phase 1: Parse and section every requested document.
	job.SetStatus(StatusParsing, "sectioning")
	files, docErrs := w.analyzer.Collect(req, job.Files())
	sections, parseErrs, err := w.analyzer.Sections(ctx, files)
	if err != nil {
		log.Error("sectioning aborted", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "sectioning")
		return
	}
	docErrs = append(docErrs, parseErrs...)
	for _, de := range docErrs {
		log.Warn("document failed", "document", de.Document, "error", de.Err)
		job.AddError(de.Error())
	}
	job.AddDocumentsProcessed(len(files) - len(parseErrs))
	job.SetSections(len(sections))
	log.Info("sections cut", "documents", len(files), "sections", len(sections))

	if len(docErrs) == len(req.Documents) {
		job.SetStatus(StatusFailed, "sectioning")
		return
	}

	// Phase 2: Rank
	job.SetStatus(StatusRanking, "ranking")
	out, err := w.analyzer.RankSections(ctx, req, sections)
	if err != nil {
		log.Error("ranking failed", "error", err)
		job.AddError(fmt.Sprintf("rank: %s", err))
		job.SetStatus(StatusFailed, "ranking")
		return
	}
	log.Info("ranking complete", "selected", len(out.ExtractedSections))

	job.SetResult(out)
	if len(docErrs) > 0 {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
