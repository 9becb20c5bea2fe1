package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/protoguide/protoguide/internal/domain"
	"github.com/protoguide/protoguide/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterCompletionMetrics()
	os.Exit(m.Run())
}

// chatRequest mirrors the fields the test asserts on.
type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponse(content string) map[string]any {
	choices := []map[string]any{}
	if content != "\x00" {
		choices = append(choices, map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		})
	}
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": choices,
		"usage":   map[string]any{"prompt_tokens": 90, "completion_tokens": 30, "total_tokens": 120},
	}
}

func newTestCompleter(t *testing.T, h http.HandlerFunc) *Completer {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewCompleter(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})
}

func TestCompleter_Complete(t *testing.T) {
	var got chatRequest
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse("Begin compressions (P-100)."))
	})

	before := testutil.ToFloat64(metrics.CompletionRequestsTotal.WithLabelValues("gpt-4o-mini", "success"))

	res, err := c.Complete(context.Background(), domain.CompletionRequest{
		System: "sys", User: "user", MaxTokens: 500, Temperature: 0.3,
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if res.Text != "Begin compressions (P-100)." {
		t.Errorf("text = %q", res.Text)
	}
	if res.PromptTokens != 90 || res.TotalTokens != 120 || res.CompletionTokens != 30 {
		t.Errorf("usage = %+v", res)
	}

	if got.Model != "gpt-4o-mini" || got.MaxTokens != 500 {
		t.Errorf("request model/max_tokens = %q/%d", got.Model, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}

	after := testutil.ToFloat64(metrics.CompletionRequestsTotal.WithLabelValues("gpt-4o-mini", "success"))
	if after-before != 1 {
		t.Errorf("success counter delta = %f, want 1", after-before)
	}
}

func TestCompleter_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "server error with detail",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
			},
			want: "503",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{not json`))
			},
			want: "completion request failed",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse("\x00"))
			},
			want: "empty completion response",
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(chatResponse(""))
			},
			want: "empty completion response",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCompleter(t, tc.handler)
			_, err := c.Complete(context.Background(), domain.CompletionRequest{System: "s", User: "u"})
			if !errors.Is(err, domain.ErrSynthesisUnavailable) {
				t.Fatalf("expected ErrSynthesisUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not contain %q", err, tc.want)
			}
		})
	}
}

func TestCompleter_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, domain.CompletionRequest{System: "s", User: "u"})
	if !errors.Is(err, domain.ErrSynthesisUnavailable) {
		t.Fatalf("expected ErrSynthesisUnavailable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline to stay visible, got %v", err)
	}
}

func TestCompleter_FailureLatencyObserved(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	}))
	t.Cleanup(server.Close)
	c := NewCompleter(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "failing-model"})

	before := testutil.CollectAndCount(metrics.CompletionRequestDuration)
	_, err := c.Complete(context.Background(), domain.CompletionRequest{System: "s", User: "u"})
	if !errors.Is(err, domain.ErrSynthesisUnavailable) {
		t.Fatalf("expected ErrSynthesisUnavailable, got %v", err)
	}
	if got := testutil.CollectAndCount(metrics.CompletionRequestDuration); got != before+1 {
		t.Errorf("duration series = %d, want %d", got, before+1)
	}
}

func TestCompleter_HealthCheck(t *testing.T) {
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"bad key"}`, "bad key"},
		{`{"error":{"message":"quota"}}`, "quota"},
		{`plain`, ""},
	}
	for _, tc := range tests {
		if got := extractDetail([]byte(tc.body)); got != tc.want {
			t.Errorf("extractDetail(%s) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
