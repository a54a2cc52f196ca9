package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nguyentantai21042004/meeting-digest/internal/generator"
)

func TestGenerate(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"tinyllama",
			"choices":[{"index":0,"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	g := NewGenerator(
		generator.WithBaseURL(srv.URL+"/v1"),
		generator.WithModel("tinyllama"),
		generator.WithJSONMode(),
	)

	out, err := g.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Errorf("Generate() = %q", out)
	}

	if got["model"] != "tinyllama" {
		t.Errorf("model = %v", got["model"])
	}
	rf, _ := got["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("response_format = %v", got["response_format"])
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer srv.Close()

	g := NewGenerator(generator.WithBaseURL(srv.URL + "/v1"))
	if _, err := g.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestGenerateServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	g := NewGenerator(generator.WithBaseURL(url + "/v1"))
	if _, err := g.Generate(context.Background(), "x"); err == nil {
		t.Error("expected error when the server is unreachable")
	}
}
