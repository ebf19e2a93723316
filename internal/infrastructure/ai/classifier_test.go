package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/doeshing/droidai/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

// fakeRuntime serves /api/tags for the probe and a canned chat reply.
func fakeRuntime(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/v1/chat/completions":
			var req chatCompletionRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad request body: %v", err)
			}
			if req.Temperature != 0 {
				t.Errorf("temperature = %v, want 0", req.Temperature)
			}
			resp := map[string]interface{}{
				"choices": []map[string]interface{}{
					{"message": map[string]string{"role": "assistant", "content": reply}},
				},
			}
			json.NewEncoder(w).Encode(resp)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClassifier(t *testing.T, srv *httptest.Server) *OllamaClassifier {
	t.Helper()
	return NewOllamaClassifier(domain.ClassifierConfig{
		Endpoint: srv.URL + "/v1/chat/completions",
		ModelID:  "test-model",
	}, nopLogger{})
}

func TestClassifyPlainJSON(t *testing.T) {
	srv := fakeRuntime(t, `{"action": "OPEN_APP", "params": {"app": "chrome"}}`)
	defer srv.Close()

	c := newTestClassifier(t, srv)
	if !c.Available() {
		t.Fatal("probe failed against live test server")
	}

	got, err := c.Classify(context.Background(), "fire up the browser")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got == nil || got.Action != domain.ActionOpenApp || got.Slots.App != "chrome" {
		t.Fatalf("Classify = %+v", got)
	}
}

func TestClassifyStripsMarkdownFences(t *testing.T) {
	srv := fakeRuntime(t, "```json\n{\"action\": \"VOLUME_UP\", \"params\": {\"amount\": 5}}\n```")
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "crank it")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got == nil || got.Action != domain.ActionVolumeUp || got.Slots.Amount != 5 {
		t.Fatalf("Classify = %+v", got)
	}
}

func TestClassifyExtractsObjectFromChatter(t *testing.T) {
	srv := fakeRuntime(t, `Sure! The answer is {"action": "MEDIA_PAUSE", "params": {}} hope that helps.`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "hold the music")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got == nil || got.Action != domain.ActionMediaPause {
		t.Fatalf("Classify = %+v", got)
	}
}

func TestClassifyRejectsUnknownAction(t *testing.T) {
	srv := fakeRuntime(t, `{"action": "MAKE_COFFEE", "params": {}}`)
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "make coffee")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got != nil {
		t.Fatalf("Classify = %+v, want nil for unknown action", got)
	}
}

func TestClassifyNoJSONIsNil(t *testing.T) {
	srv := fakeRuntime(t, "I am not sure what you mean.")
	defer srv.Close()

	got, err := newTestClassifier(t, srv).Classify(context.Background(), "mumble")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if got != nil {
		t.Fatalf("Classify = %+v, want nil", got)
	}
}

func TestProbeFailureMarksUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on

	c := NewOllamaClassifier(domain.ClassifierConfig{Endpoint: srv.URL + "/v1/chat/completions"}, nopLogger{})
	if c.Available() {
		t.Fatal("Available = true against a dead endpoint")
	}
}
