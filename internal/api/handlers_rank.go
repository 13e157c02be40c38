package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgallion1/outliner/internal/pipeline"
	"github.com/dgallion1/outliner/internal/rank"
)

// maxRankFiles bounds the document collection of one ranking request.
const maxRankFiles = 50

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	raw := r.FormValue("request")
	if strings.TrimSpace(raw) == "" {
		jsonError(w, "request is required", http.StatusBadRequest)
		return
	}
	var req rank.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		jsonError(w, "invalid request json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(headers) > maxRankFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", maxRankFiles), http.StatusBadRequest)
		return
	}

	files := make([]pipeline.File, 0, len(headers))
	for _, fh := range headers {
		f, status, err := s.readUpload(fh)
		if err != nil {
			jsonError(w, err.Error(), status)
			return
		}
		files = append(files, f)
	}

	job := pipeline.NewRankJob(&req, files)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"poll_url": pollURL(job.ID),
	})
}
