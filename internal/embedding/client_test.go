package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_BatchesAndMapsByIndex(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/embeddings" {
			t.Errorf("expected /embeddings, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("expected bearer auth, got %q", got)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Model != "test-model" {
			t.Errorf("expected model test-model, got %q", req.Model)
		}

		type item struct {
			Index     int       `json:"index"`
			Embedding []float64 `json:"embedding"`
		}
		// Reverse order to exercise index mapping.
		var data []item
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, item{Index: i, Embedding: []float64{float64(len(req.Input[i]))}})
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	stats := NewStats(time.Hour)
	c, err := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret", Model: "test-model", BatchSize: 2}, stats)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer c.Close()

	vecs, err := c.Embed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 batch calls, got %d", calls.Load())
	}
	for i, want := range []float64{1, 2, 3} {
		if vecs[i][0] != want {
			t.Errorf("vector %d: expected %v, got %v", i, want, vecs[i][0])
		}
	}
	if stats.Snapshot().Count != 2 {
		t.Errorf("expected 2 latency samples, got %d", stats.Snapshot().Count)
	}
}

func TestClient_RetryableStatus(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", code)
		}))

		c, _ := NewClient(Config{BaseURL: srv.URL, Model: "m"}, nil)
		_, err := c.Embed(context.Background(), []string{"x"})
		srv.Close()

		var re *RetryableError
		if !errors.As(err, &re) {
			t.Fatalf("status %d: expected RetryableError, got %v", code, err)
		}
		if re.StatusCode != code {
			t.Errorf("expected status %d, got %d", code, re.StatusCode)
		}
	}
}

func TestClient_ClientErrorNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, Model: "m"}, nil)
	_, err := c.Embed(context.Background(), []string{"x"})
	if err == nil {
		t.Fatal("expected error for 400")
	}
	var re *RetryableError
	if errors.As(err, &re) {
		t.Error("expected 400 not to be retryable")
	}
}

func TestClient_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer srv.Close()

	c, _ := NewClient(Config{BaseURL: srv.URL, Model: "m"}, nil)
	if _, err := c.Embed(context.Background(), []string{"x", "y"}); err == nil {
		t.Fatal("expected error when vector count differs from input count")
	}
}

func TestNewClient_RequiresModel(t *testing.T) {
	if _, err := NewClient(Config{}, nil); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestNew_Providers(t *testing.T) {
	e, err := New(Config{}, nil)
	if err != nil || e.Name() != ProviderHashing {
		t.Fatalf("expected hashing default, got %v, %v", e, err)
	}
	e, err = New(Config{Provider: ProviderOpenAI, Model: "m"}, nil)
	if err != nil || e.Name() != ProviderOpenAI {
		t.Fatalf("expected openai client, got %v, %v", e, err)
	}
	if _, err := New(Config{Provider: "bogus"}, nil); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
