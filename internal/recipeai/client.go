// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package recipeai talks to a hosted language model to transcribe recipes
// from page text and reformat them for the recipe manager.
package recipeai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pantryops/recipe-engine/internal/httputil"
	"github.com/pantryops/recipe-engine/pkg/types"
)

// ModelClient abstracts the hosted model API so tests can supply a mock.
// Complete sends one system/user message pair and returns the assistant text.
type ModelClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// defaultBaseURL is the OpenAI chat-completions endpoint. Package-level var
// for test substitution.
var defaultBaseURL = "https://api.openai.com/v1/chat/completions"

const defaultTimeout = 120 * time.Second

// OpenAIClient calls an OpenAI-compatible chat-completions API.
type OpenAIClient struct {
	cfg    types.AIConfig
	client *http.Client
}

// NewOpenAIClient builds a client from the AI configuration. The API key
// and model must already be validated by the caller.
func NewOpenAIClient(cfg types.AIConfig) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// chatMessage is a single message in the conversation.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response body from the chat-completions API.
type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

// chatChoice is one completion choice in the response.
type chatChoice struct {
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// apiError is the error envelope returned on non-2xx responses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends the prompt pair to the model and returns the first
// choice's text. Rate limits and transient server errors are retried by
// the shared HTTP helper before surfacing as an error.
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.BaseURL
	if url == "" {
		url = defaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := httputil.DoWithRetry(ctx, c.client, req, c.cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var ae apiError
		if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
			return "", fmt.Errorf("model API returned %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return "", fmt.Errorf("model API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding model response: %w", err)
	}

	if len(cResp.Choices) == 0 {
		return "", fmt.Errorf("model API returned no choices")
	}

	return cResp.Choices[0].Message.Content, nil
}
