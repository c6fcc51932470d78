package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		CallTimeout:    time.Second,
	}
}

func candidateBody(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{{
			"content": map[string]interface{}{
				"parts": []map[string]interface{}{{"text": text}},
			},
			"finishReason": "STOP",
		}},
		"usageMetadata": map[string]interface{}{"totalTokenCount": 42},
	}
}

func testClient(serverURL string) *GeminiClient {
	return NewGeminiClient("test-key",
		GeminiWithEndpoint(serverURL+"/models/%s:generateContent"),
		GeminiWithRetryPolicy(fastRetryPolicy()),
	)
}

func TestGeminiGenerateSuccess(t *testing.T) {
	var gotModel string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotModel = r.URL.Path
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(candidateBody("the verdict text"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	resp := client.Generate(context.Background(), Request{
		Prompt:       "judge this",
		SystemPrompt: "you are a judge",
		Temperature:  0.2,
		MaxTokens:    512,
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "the verdict text", resp.Text)
	assert.Equal(t, 42, resp.TokensUsed)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Contains(t, gotModel, "gemini-2.5-flash")

	// system prompt is folded into the single user prompt
	contents := gotBody["contents"].([]interface{})
	parts := contents[0].(map[string]interface{})["parts"].([]interface{})
	text := parts[0].(map[string]interface{})["text"].(string)
	assert.Contains(t, text, "you are a judge")
	assert.Contains(t, text, "judge this")
}

func TestGeminiGenerateRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(candidateBody("recovered"))
	}))
	defer server.Close()

	resp := testClient(server.URL).Generate(context.Background(), Request{Prompt: "p"})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "recovered", resp.Text)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeminiGenerateAuthFailureNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	resp := testClient(server.URL).Generate(context.Background(), Request{Prompt: "p"})

	assert.False(t, resp.Success)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiGenerateBlockedPromptNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"promptFeedback": map[string]interface{}{"blockReason": "SAFETY"},
		})
	}))
	defer server.Close()

	resp := testClient(server.URL).Generate(context.Background(), Request{Prompt: "p"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "prompt blocked")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	resp := testClient(server.URL).Generate(context.Background(), Request{Prompt: "p"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "after 3 attempts")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeminiGenerateNoAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	client := NewGeminiClient("")

	resp := client.Generate(context.Background(), Request{Prompt: "p"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "GEMINI_API_KEY")
}

func TestGeminiGenerateModelOverride(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewEncoder(w).Encode(candidateBody("ok"))
	}))
	defer server.Close()

	resp := testClient(server.URL).Generate(context.Background(), Request{Prompt: "p", Model: "gemini-2.5-pro"})

	require.True(t, resp.Success)
	assert.Contains(t, path, "gemini-2.5-pro")
}
