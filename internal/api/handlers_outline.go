package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/outliner/internal/parser"
	"github.com/dgallion1/outliner/internal/pipeline"
)

func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	file.Close()

	f, status, err := s.readUpload(header)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	job := pipeline.NewOutlineJob(f)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"doc_id":   job.DocID,
		"status":   pipeline.StatusQueued,
		"poll_url": pollURL(job.ID),
	})
}

// readUpload reads one multipart file, enforcing the supported extensions and
// the size limit. The returned status is the HTTP code to report on error.
func (s *Server) readUpload(fh *multipart.FileHeader) (pipeline.File, int, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return pipeline.File{}, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	file, err := fh.Open()
	if err != nil {
		return pipeline.File{}, http.StatusBadRequest, fmt.Errorf("failed to open %s", filename)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return pipeline.File{}, http.StatusInternalServerError, fmt.Errorf("failed to read %s", filename)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return pipeline.File{}, http.StatusRequestEntityTooLarge, fmt.Errorf("%s exceeds max size (%d bytes)", filename, s.cfg.MaxUploadBytes)
	}
	return pipeline.File{Name: filename, Data: data}, 0, nil
}

func pollURL(jobID string) string {
	return "/api/jobs/" + jobID
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
