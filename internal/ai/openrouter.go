package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"genweb/internal/model"
)

// OpenRouterClient calls a chat-completions style endpoint with Bearer
// authentication. History turns travel as plain string contents; the final
// user message carries text plus image_url parts.
type OpenRouterClient struct {
	httpClient *http.Client
	url        string
	apiKey     string // fallback when the model carries no key of its own
}

func NewOpenRouterClient(endpoint, apiKey string) *OpenRouterClient {
	return &OpenRouterClient{
		httpClient: &http.Client{Timeout: 90 * time.Second},
		url:        endpoint,
		apiKey:     apiKey,
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

func (c *OpenRouterClient) Generate(ctx context.Context, info ModelInfo, req Request) (string, error) {
	messages := make([]chatCompletionMessage, 0, len(req.History)+2)
	if req.System != "" {
		messages = append(messages, chatCompletionMessage{Role: "system", Content: req.System})
	}
	for _, turn := range req.History {
		role := "assistant"
		if turn.Role == model.RoleUser {
			role = "user"
		}
		messages = append(messages, chatCompletionMessage{Role: role, Content: turn.Text})
	}

	userParts := []contentPart{{Type: "text", Text: req.Prompt}}
	for _, img := range req.Images {
		userParts = append(userParts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURLPart{URL: "data:" + img.MimeType + ";base64," + img.Data},
		})
	}
	messages = append(messages, chatCompletionMessage{Role: "user", Content: userParts})

	reqBody := map[string]any{
		"model":    info.ID,
		"messages": messages,
	}
	if req.MaxTokens > 0 {
		reqBody["max_tokens"] = req.MaxTokens
	}
	if req.Temperature > 0 {
		reqBody["temperature"] = req.Temperature
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal openrouter request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build openrouter request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	key := info.APIKey
	if key == "" {
		key = c.apiKey
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read openrouter response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: ProviderOpenRouter, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse openrouter json failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty openrouter choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
