package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-interview-orchestrator/internal/app"
	"ai-interview-orchestrator/internal/config"
	"ai-interview-orchestrator/internal/events"
	"ai-interview-orchestrator/internal/models"
	"ai-interview-orchestrator/internal/service/interview"
	judgemock "ai-interview-orchestrator/internal/service/judge/mock"
	llmmock "ai-interview-orchestrator/internal/service/llm/mock"
	"ai-interview-orchestrator/internal/service/ranking"
	"ai-interview-orchestrator/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, *interview.Service) {
	t.Helper()
	svc := interview.NewService(
		store.NewMemoryStore(),
		llmmock.New(llmmock.WithDelay(0)),
		judgemock.New(),
		ranking.NewStatic(),
		events.New(nil),
		interview.DefaultOptions(),
	)
	application := app.New(config.Default())
	noopWS := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})
	return NewRouter(application, svc, noopWS), svc
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateSession(t *testing.T) {
	router, svc := newTestRouter(t)

	body, _ := json.Marshal(models.SessionConfig{
		CandidateName:  "Ada",
		CandidateID:    "cand-1",
		JobID:          "job-1",
		JobDescription: "Backend engineer",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body)
	}
	var resp createSessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("empty session id")
	}
	if _, _, err := svc.Session(resp.SessionID); err != nil {
		t.Fatalf("created session not retrievable: %v", err)
	}
}

func TestCreateSessionRejectsBadBody(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing name", `{"jobId":"job-1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/sessions", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestEndSession(t *testing.T) {
	router, svc := newTestRouter(t)
	id, err := svc.CreateSession(context.Background(), models.SessionConfig{CandidateName: "Ada"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+id+"/end", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body)
	}
	var report models.FinalReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != models.StatusManuallyEnded {
		t.Fatalf("report status = %q, want Manually Ended", report.Status)
	}
}

func TestEndUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/nope/end", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestReportLifecycle(t *testing.T) {
	router, svc := newTestRouter(t)
	id, err := svc.CreateSession(context.Background(), models.SessionConfig{CandidateName: "Ada"})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id+"/report", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("pre-finalize status = %d, want 409", rec.Code)
	}

	if _, err := svc.Finalize(context.Background(), id); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+id+"/report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("post-finalize status = %d, want 200", rec.Code)
	}
	var report models.FinalReport
	if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Recommendation == "" {
		t.Fatal("report recommendation should be set")
	}
}
