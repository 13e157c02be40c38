package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/outliner/internal/rank"
)

// JobKind selects the analysis a job runs.
type JobKind string

const (
	KindOutline JobKind = "outline"
	KindRank    JobKind = "rank"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusOutlining JobStatus = "outlining"
	StatusRanking   JobStatus = "ranking"
	StatusCompleted JobStatus = "completed"
	StatusPartial   JobStatus = "partial"
	StatusFailed    JobStatus = "failed"
)

// Done reports whether the status is terminal.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusPartial || s == StatusFailed
}

// File is one uploaded document.
type File struct {
	Name string
	Data []byte
}

// Job tracks the state of a single outline or ranking request.
type Job struct {
	mu sync.Mutex

	ID    string  `json:"job_id"`
	Kind  JobKind `json:"kind"`
	DocID string  `json:"doc_id,omitempty"`

	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files   []File
	request *rank.Request
	result  any
	errors  []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments     int      `json:"total_documents"`
	DocumentsProcessed int      `json:"documents_processed"`
	Sections           int      `json:"sections"`
	Errors             []string `json:"errors"`
}

// NewJob returns a queued job with a fresh ID.
func NewJob(kind JobKind, files []File) *Job {
	now := time.Now()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusQueued,
		Phase:     "queued",
		Filenames: names,
		Progress:  Progress{TotalDocuments: len(files)},
		CreatedAt: now,
		UpdatedAt: now,
		files:     files,
	}
}

// NewOutlineJob wraps a single document.
func NewOutlineJob(f File) *Job {
	job := NewJob(KindOutline, []File{f})
	job.DocID = ContentHashHex(f.Data)
	return job
}

// NewRankJob wraps a ranking request and its document collection.
func NewRankJob(req *rank.Request, files []File) *Job {
	job := NewJob(KindRank, files)
	job.request = req
	return job
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically. A terminal status releases the
// uploaded bytes whether or not the job produced a result.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	if status.Done() {
		j.files = nil
	}
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// AddDocumentsProcessed advances the processed document counter.
func (j *Job) AddDocumentsProcessed(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsProcessed += n
	j.UpdatedAt = time.Now()
}

// SetSections records how many sections were cut from the collection.
func (j *Job) SetSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Sections = n
	j.UpdatedAt = time.Now()
}

// Files returns the uploaded documents.
func (j *Job) Files() []File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// Request returns the ranking request, nil for outline jobs.
func (j *Job) Request() *rank.Request {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.request
}

// SetResult stores the job output and releases the uploaded bytes.
func (j *Job) SetResult(result any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = result
	j.files = nil
	j.UpdatedAt = time.Now()
}

// Result returns the job output, nil until the job finishes.
func (j *Job) Result() any {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Kind      JobKind   `json:"kind"`
	DocID     string    `json:"doc_id,omitempty"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filenames []string  `json:"filenames"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Result    any       `json:"result,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.Progress.Errors))
	copy(errs, j.Progress.Errors)
	names := j.Filenames
	if names == nil {
		names = []string{}
	}
	return JobSnapshot{
		ID:        j.ID,
		Kind:      j.Kind,
		DocID:     j.DocID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filenames: names,
		Progress: Progress{
			TotalDocuments:     j.Progress.TotalDocuments,
			DocumentsProcessed: j.Progress.DocumentsProcessed,
			Sections:           j.Progress.Sections,
			Errors:             errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
		Result:    j.result,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
