package inference

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GenaiClient implements Client on the official Gemini SDK. The server
// uses this one; the raw-HTTP GeminiClient exists for setups that need an
// endpoint override.
type GenaiClient struct {
	client *genai.Client
	model  string
	policy RetryPolicy
}

// GenaiOption is a functional option for GenaiClient
type GenaiOption func(*GenaiClient)

// GenaiWithModel sets the default model
func GenaiWithModel(model string) GenaiOption {
	return func(c *GenaiClient) {
		c.model = model
	}
}

// GenaiWithRetryPolicy sets the retry policy
func GenaiWithRetryPolicy(policy RetryPolicy) GenaiOption {
	return func(c *GenaiClient) {
		c.policy = policy
	}
}

// NewGenaiClient creates an SDK-backed inference client
func NewGenaiClient(ctx context.Context, apiKey string, opts ...GenaiOption) (*GenaiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	c := &GenaiClient{
		client: client,
		model:  defaultModel,
		policy: DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying SDK client
func (c *GenaiClient) Close() error {
	return c.client.Close()
}

// Generate implements Client
func (c *GenaiClient) Generate(ctx context.Context, req Request) Response {
	modelName := req.Model
	if modelName == "" {
		modelName = c.model
	}

	prompt := req.Prompt
	if len(prompt) > maxPromptChars {
		log.Printf("Warning: Prompt too long (%d chars), truncating to %d chars", len(prompt), maxPromptChars)
		prompt = prompt[:maxPromptChars] + "\n\n[Content truncated due to length...]"
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	var result Response
	err := withRetry(ctx, c.policy, func(ctx context.Context) error {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return classifyGenaiError(err)
		}

		parsed, err := parseGenaiResponse(resp)
		if err != nil {
			return err
		}
		result = parsed
		return nil
	})
	if err != nil {
		return Response{Success: false, Error: err.Error()}
	}
	return result
}

// classifyGenaiError marks auth and quota failures as non-retryable
func classifyGenaiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 400, 401, 403, 429:
			return fmt.Errorf("%w: %v", ErrNonRetryable, err)
		}
	}
	return err
}

func parseGenaiResponse(resp *genai.GenerateContentResponse) (Response, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return Response{}, fmt.Errorf("%w: prompt blocked: %s", ErrNonRetryable, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return Response{}, fmt.Errorf("API returned no candidates")
	}

	var text strings.Builder
	finishReason := ""
	for i, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}
		if finishReason == "" {
			finishReason = candidate.FinishReason.String()
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}

	if text.Len() == 0 {
		return Response{}, fmt.Errorf("API returned empty content")
	}

	tokens := 0
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return Response{
		Success:      true,
		Text:         text.String(),
		TokensUsed:   tokens,
		FinishReason: finishReason,
	}, nil
}
