// Package ai holds the provider clients the chat orchestrator generates
// replies with. Both clients speak plain HTTP; the request shape differs per
// provider (generative-content parts vs chat-completions messages).
package ai

import (
	"context"
	"errors"
	"fmt"
)

const (
	ProviderGoogle     = "google"
	ProviderOpenRouter = "openrouter"
)

var (
	ErrUnknownModel    = errors.New("unknown model")
	ErrUnknownProvider = errors.New("unknown provider")
)

// ImageData is one inline image sent with a prompt. Data is raw base64
// without a data URL prefix.
type ImageData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Turn is one prior conversation turn included for context.
type Turn struct {
	Role string // model.RoleUser or model.RoleAI
	Text string
}

// Request is the provider-neutral generation request: system instruction,
// inline images, prior turns and the final prompt, in that order.
type Request struct {
	System      string
	Images      []ImageData
	History     []Turn
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// ProviderError is a non-success provider response, surfaced with the
// status code and body text.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s response status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ModelInfo describes one selectable model and the provider serving it.
type ModelInfo struct {
	ID       string
	Name     string
	Provider string
	APIKey   string // per-model key override, openrouter models carry their own
}

// Generator produces a reply for a prompt against a given model.
type Generator interface {
	Generate(ctx context.Context, modelID string, req Request) (string, error)
}

// Router resolves a model id to its provider client.
type Router struct {
	models     []ModelInfo
	gemini     *GeminiClient
	openRouter *OpenRouterClient
}

func NewRouter(models []ModelInfo, gemini *GeminiClient, openRouter *OpenRouterClient) *Router {
	return &Router{models: models, gemini: gemini, openRouter: openRouter}
}

func (r *Router) Generate(ctx context.Context, modelID string, req Request) (string, error) {
	info, ok := r.lookup(modelID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}

	switch info.Provider {
	case ProviderGoogle:
		return r.gemini.Generate(ctx, info.ID, req)
	case ProviderOpenRouter:
		return r.openRouter.Generate(ctx, info, req)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, info.Provider)
	}
}

func (r *Router) lookup(modelID string) (ModelInfo, bool) {
	for _, m := range r.models {
		if m.ID == modelID {
			return m, true
		}
	}
	return ModelInfo{}, false
}
