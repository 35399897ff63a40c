package generator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "anthropic", cfg: Config{Provider: "anthropic", APIKey: "k"}},
		{name: "default provider", cfg: Config{APIKey: "k"}},
		{name: "openai", cfg: Config{Provider: "OpenAI", APIKey: "k"}},
		{name: "missing key", cfg: Config{Provider: "anthropic"}, wantErr: true},
		{name: "unknown provider", cfg: Config{Provider: "llama", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && gen == nil {
				t.Error("New() returned nil generator")
			}
		})
	}
}

func fakeServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestAnthropicGenerator(t *testing.T) {
	srv, hits := fakeServer(t, http.StatusOK, `{
		"id": "msg_01", "type": "message", "role": "assistant", "model": "claude-sonnet-4-5",
		"content": [{"type": "text", "text": "Monday wins: "}, {"type": "text", "text": "shipped v2."}],
		"stop_reason": "end_turn", "stop_sequence": null,
		"usage": {"input_tokens": 12, "output_tokens": 6}
	}`)

	gen, err := New(Config{Provider: ProviderAnthropic, APIKey: "test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := gen.Generate(context.Background(), "recap")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Monday wins: shipped v2." {
		t.Errorf("Generate() = %q", text)
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("expected one request, got %d", atomic.LoadInt32(hits))
	}
}

func TestAnthropicGenerator_NoRetryOnServerError(t *testing.T) {
	srv, hits := fakeServer(t, http.StatusInternalServerError, `{"type":"error","error":{"type":"api_error","message":"internal"}}`)

	gen, _ := New(Config{Provider: ProviderAnthropic, APIKey: "test", BaseURL: srv.URL + "/"})
	if _, err := gen.Generate(context.Background(), "recap"); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("expected exactly one attempt, got %d", atomic.LoadInt32(hits))
	}
}

func TestOpenAIGenerator(t *testing.T) {
	srv, hits := fakeServer(t, http.StatusOK, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1704067200, "model": "gpt-4o-mini",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Shipped v2 today."}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
	}`)

	gen, err := New(Config{Provider: ProviderOpenAI, APIKey: "test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	text, err := gen.Generate(context.Background(), "recap")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "Shipped v2 today." {
		t.Errorf("Generate() = %q", text)
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("expected one request, got %d", atomic.LoadInt32(hits))
	}
}

func TestOpenAIGenerator_NoChoices(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `{"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`)

	gen, _ := New(Config{Provider: ProviderOpenAI, APIKey: "test", BaseURL: srv.URL + "/"})
	_, err := gen.Generate(context.Background(), "recap")
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("expected no-choices error, got %v", err)
	}
}

func TestOpenAIGenerator_NoRetryOnServerError(t *testing.T) {
	srv, hits := fakeServer(t, http.StatusServiceUnavailable, `{"error":{"message":"overloaded","type":"server_error"}}`)

	gen, _ := New(Config{Provider: ProviderOpenAI, APIKey: "test", BaseURL: srv.URL + "/"})
	if _, err := gen.Generate(context.Background(), "recap"); err == nil {
		t.Fatal("expected error")
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Errorf("expected exactly one attempt, got %d", atomic.LoadInt32(hits))
	}
}
