package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

// GeminiProvider answers through the Google Generative AI SDK. Prior
// exchanges are replayed as chat history so follow-ups stay grounded.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiProvider{client: client, model: cfg.GeminiModel}, nil
}

func (p *GeminiProvider) Ask(ctx context.Context, question string, history []Exchange) (string, error) {
	model := p.client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	session := model.StartChat()
	// history arrives most recent first; the chat API wants oldest first.
	for i := len(history) - 1; i >= 0; i-- {
		session.History = append(session.History,
			&genai.Content{Role: "user", Parts: []genai.Part{genai.Text(history[i].Question)}},
			&genai.Content{Role: "model", Parts: []genai.Part{genai.Text(history[i].Response)}},
		)
	}

	resp, err := session.SendMessage(ctx, genai.Text(question))
	if err != nil {
		return "", p.classify(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", chatbot_errors.ErrUpstream)
	}

	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			answer.WriteString(string(txt))
		}
	}
	if answer.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text response: %w", chatbot_errors.ErrUpstream)
	}

	return answer.String(), nil
}

func (p *GeminiProvider) Close() error {
	return p.client.Close()
}

func (p *GeminiProvider) classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("gemini request timed out: %w", chatbot_errors.ErrUpstreamTimeout)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	wrapped := fmt.Errorf("gemini request failed: %v: %w", err, chatbot_errors.ErrUpstream)
	if isNetworkError(err) || isQuotaError(err) || strings.Contains(strings.ToLower(err.Error()), "unavailable") {
		return markTransient(wrapped)
	}
	return wrapped
}
