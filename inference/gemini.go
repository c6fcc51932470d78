package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

const (
	defaultGenerationAPI = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
	defaultModel         = "gemini-2.5-flash"

	// Prompts above this are truncated rather than rejected
	maxPromptChars = 30000
)

// GeminiClient calls the Gemini generateContent HTTP API with bounded
// retry and per-call timeouts
type GeminiClient struct {
	apiKey     string
	model      string
	policy     RetryPolicy
	httpClient *http.Client
	endpoint   string // overridable for tests
}

// GeminiOption is a functional option for GeminiClient
type GeminiOption func(*GeminiClient)

// GeminiWithModel sets the default model
func GeminiWithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// GeminiWithRetryPolicy sets the retry policy
func GeminiWithRetryPolicy(policy RetryPolicy) GeminiOption {
	return func(c *GeminiClient) {
		c.policy = policy
	}
}

// GeminiWithHTTPClient sets the HTTP client
func GeminiWithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		c.httpClient = hc
	}
}

// GeminiWithEndpoint overrides the API endpoint template
func GeminiWithEndpoint(endpoint string) GeminiOption {
	return func(c *GeminiClient) {
		c.endpoint = endpoint
	}
}

// NewGeminiClient creates a Gemini-backed inference client. The API key is
// read from GEMINI_API_KEY when empty.
func NewGeminiClient(apiKey string, opts ...GeminiOption) *GeminiClient {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	c := &GeminiClient{
		apiKey:     apiKey,
		model:      defaultModel,
		policy:     DefaultRetryPolicy(),
		httpClient: &http.Client{},
		endpoint:   defaultGenerationAPI,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount,omitempty"`
	} `json:"usageMetadata,omitempty"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error,omitempty"`
}

// Generate implements Client. It never returns a partial success: either
// Success is true and Text holds the full concatenated response, or
// Success is false and Error describes the final failure.
func (c *GeminiClient) Generate(ctx context.Context, req Request) Response {
	if c.apiKey == "" {
		return Response{Success: false, Error: "GEMINI_API_KEY not set"}
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	fullPrompt := req.Prompt
	if req.SystemPrompt != "" {
		fullPrompt = req.SystemPrompt + "\n\n" + req.Prompt
	}
	if len(fullPrompt) > maxPromptChars {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(fullPrompt), maxPromptChars)
		fullPrompt = fullPrompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}

	generationConfig := map[string]interface{}{
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = req.MaxTokens
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": fullPrompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return Response{Success: false, Error: fmt.Sprintf("failed to marshal request: %v", err)}
	}

	var result Response
	err = withRetry(ctx, c.policy, func(ctx context.Context) error {
		resp, err := c.callOnce(ctx, model, jsonData)
		if err != nil {
			return err
		}
		result = resp
		return nil
	})
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return result
}

func (c *GeminiClient) callOnce(ctx context.Context, model string, jsonData []byte) (Response, error) {
	url := fmt.Sprintf(c.endpoint, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		// Auth and quota failures will not heal on retry
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests:
			return Response{}, fmt.Errorf("%w: status %d: %s", ErrNonRetryable, resp.StatusCode, string(bodyBytes))
		}
		return Response{}, fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return Response{}, fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}
	if apiResp.PromptFeedback.BlockReason != "" {
		return Response{}, fmt.Errorf("%w: prompt blocked: %s", ErrNonRetryable, apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return Response{}, fmt.Errorf("API returned no candidates")
	}

	var text strings.Builder
	finishReason := ""
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		if finishReason == "" {
			finishReason = candidate.FinishReason
		}
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
	}

	if text.Len() == 0 {
		return Response{}, fmt.Errorf("API returned empty content")
	}

	return Response{
		Success:      true,
		Text:         text.String(),
		TokensUsed:   apiResp.UsageMetadata.TotalTokenCount,
		FinishReason: finishReason,
	}, nil
}
