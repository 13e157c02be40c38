package rank

import (
	"errors"
	"fmt"
	"strings"
)

// Request is a persona-driven ranking job. Unknown JSON fields are ignored.
type Request struct {
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
	Documents []DocumentRef `json:"documents"`
}

// DocumentRef names one input file of a Request.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Role returns the trimmed persona role.
func (r *Request) Role() string { return strings.TrimSpace(r.Persona.Role) }

// Task returns the trimmed job-to-be-done task.
func (r *Request) Task() string { return strings.TrimSpace(r.JobToBeDone.Task) }

// Filenames lists the requested documents in request order.
func (r *Request) Filenames() []string {
	out := make([]string, len(r.Documents))
	for i, d := range r.Documents {
		out[i] = d.Filename
	}
	return out
}

// Validate checks the request is complete and its filenames are plain names.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("request is nil")
	}
	if r.Role() == "" {
		return errors.New("persona.role is required")
	}
	if r.Task() == "" {
		return errors.New("job_to_be_done.task is required")
	}
	if len(r.Documents) == 0 {
		return errors.New("at least one document is required")
	}
	seen := make(map[string]bool, len(r.Documents))
	for i, d := range r.Documents {
		name := strings.TrimSpace(d.Filename)
		if name == "" {
			return fmt.Errorf("documents[%d].filename is required", i)
		}
		if strings.ContainsAny(name, `/\`) || name == "." {
			return fmt.Errorf("documents[%d].filename %q must not contain a path", i, name)
		}
		// Uploads have ".." rewritten, so such a name could never match one.
		if strings.Contains(name, "..") {
			return fmt.Errorf("documents[%d].filename %q must not contain \"..\"", i, name)
		}
		if seen[name] {
			return fmt.Errorf("documents[%d].filename %q is duplicated", i, name)
		}
		seen[name] = true
	}
	return nil
}
