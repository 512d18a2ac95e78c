package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"legalassist/assistant"
	"legalassist/message"
	"legalassist/vector"
	"legalassist/websearch"
)

type scriptedLLM struct {
	mu        sync.Mutex
	responses []string
	calls     int
}

func (s *scriptedLLM) Generate(ctx context.Context, msgs []*message.Message) (*message.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls >= len(s.responses) {
		return nil, fmt.Errorf("unexpected llm call %d", s.calls)
	}
	resp := s.responses[s.calls]
	s.calls++
	return message.NewMessage(message.RoleAssistant, resp), nil
}

func (s *scriptedLLM) SetTemperature(float64) {}
func (s *scriptedLLM) SetMaxTokens(int64)     {}
func (s *scriptedLLM) SetModel(string)        {}

type stubIndex struct{}

func (stubIndex) Search(ctx context.Context, query string, topK int) ([]vector.Match, error) {
	return []vector.Match{
		{Content: "eviction requires written notice", Source: "tenancy_act.pdf", Page: 3, Score: 0.91},
	}, nil
}

type stubWeb struct{}

func (stubWeb) Search(ctx context.Context, query string, opts websearch.Options) ([]websearch.Result, error) {
	return []websearch.Result{
		{URL: "https://example.org/tenancy", Title: "Tenancy", Content: "notice periods vary"},
	}, nil
}

func newTestServer(t *testing.T) (*Server, *MemoryTaskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	llmStub := &scriptedLLM{responses: []string{
		`{"core_legal_issue": "tenant eviction", "jurisdiction": "India", "key_terms": ["eviction"]}`,
		`{"relevance_score": 8}`,
		`{"relevance_score": 9}`,
		`Eviction requires a valid written notice.`,
	}}

	a, err := assistant.New(assistant.Collaborators{
		LLM:   llmStub,
		Index: stubIndex{},
		Web:   stubWeb{},
	})
	if err != nil {
		t.Fatalf("assistant.New error: %v", err)
	}

	store := NewMemoryTaskStore(24 * time.Hour)
	return New(a, store), store
}

func pollStatus(t *testing.T, router *gin.Engine, taskID string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/query/status/"+taskID, nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status endpoint returned %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		if body["status"] != string(TaskProcessing) {
			return body
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("task never left processing state")
	return nil
}

func TestTextQueryLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	payload := `{"query": "can my landlord evict me without notice?"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/query/text", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("dispatch returned %d: %s", w.Code, w.Body.String())
	}
	var accepted struct {
		TaskID string `json:"task_id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode dispatch response: %v", err)
	}
	if accepted.TaskID == "" || accepted.Status != string(TaskProcessing) {
		t.Fatalf("dispatch response: %+v", accepted)
	}

	body := pollStatus(t, router, accepted.TaskID)
	if body["status"] != string(TaskCompleted) {
		t.Fatalf("final status: %v (%v)", body["status"], body["error"])
	}
	resp, ok := body["response"].(map[string]any)
	if !ok {
		t.Fatalf("missing response payload: %v", body)
	}
	if resp["final_response"] != "Eviction requires a valid written notice." {
		t.Fatalf("final_response: %v", resp["final_response"])
	}
}

func TestTextQueryRejectsMissingQuery(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/query/text", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestFileQueryRequiresUpload(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	writer.WriteField("query", "what does this document mean?")
	writer.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/query/pdf", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", w.Code)
	}
}

func TestStatusUnknownTask(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/query/status/no-such-task", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
