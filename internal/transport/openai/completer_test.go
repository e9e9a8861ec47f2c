package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/domain"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150},
	}
}

func TestCompleter_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var body struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Model != "gpt-4o" {
			t.Errorf("model = %q", body.Model)
		}
		if body.Temperature != 0.2 || body.MaxTokens != 500 {
			t.Errorf("temperature/max_tokens = %v/%d", body.Temperature, body.MaxTokens)
		}
		if len(body.Messages) != 2 || body.Messages[0].Role != "system" || body.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", body.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{"deviceType": "IPHONE"}`))
	}))
	defer server.Close()

	res, err := NewCompleter(newTestClient(t, server.URL)).Complete(context.Background(), domain.CompletionRequest{
		System: "system prompt",
		User:   "user prompt",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if res.Content != `{"deviceType": "IPHONE"}` {
		t.Errorf("Content = %q", res.Content)
	}
	if res.PromptTokens != 120 || res.CompletionTokens != 30 || res.TotalTokens != 150 {
		t.Errorf("usage = %+v", res)
	}
}

func TestCompleter_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse("")
		resp["choices"] = []map[string]any{}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	_, err := NewCompleter(newTestClient(t, server.URL)).Complete(context.Background(), domain.CompletionRequest{User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
}

func TestCompleter_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid api key", "type": "invalid_request_error"},
		})
	}))
	defer server.Close()

	_, err := NewCompleter(newTestClient(t, server.URL)).Complete(context.Background(), domain.CompletionRequest{User: "q"})
	if !errors.Is(err, domain.ErrLLMProviderError) {
		t.Fatalf("expected ErrLLMProviderError, got %v", err)
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("expected status in error, got %q", err)
	}
}

func TestCompleter_AzureRouting(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt-4o/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if v := r.URL.Query().Get("api-version"); v != DefaultAzureAPIVersion {
			t.Errorf("api-version = %q", v)
		}
		if r.Header.Get("api-key") != "azure-key" {
			t.Errorf("api-key header = %q", r.Header.Get("api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse(`{}`))
	}))
	defer server.Close()

	client, err := NewClient(&Config{
		Provider:       ProviderAzure,
		APIKey:         "azure-key",
		Endpoint:       server.URL,
		ChatDeployment: "gpt-4o",
		Logger:         zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := NewCompleter(client).Complete(context.Background(), domain.CompletionRequest{User: "q"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}
