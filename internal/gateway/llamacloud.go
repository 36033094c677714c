package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	chatbot_errors "github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/errors"
)

// LlamaCloudProvider queries the hosted retrieval index over HTTP. The
// retrieval parameters mirror how the course transcripts were indexed.
type LlamaCloudProvider struct {
	baseURL        string
	apiKey         string
	indexName      string
	projectName    string
	organizationID string
	client         *http.Client
}

const (
	llamaCloudQueryPath = "/api/v1/query"

	similarityTopK = 30
	rerankTopN     = 6
)

func NewLlamaCloudProvider(cfg *config.Config) (*LlamaCloudProvider, error) {
	if cfg.LlamaCloudAPIKey == "" {
		return nil, fmt.Errorf("LLAMA_CLOUD_API_KEY is required for the llamacloud provider")
	}
	if cfg.LlamaCloudIndexName == "" {
		return nil, fmt.Errorf("LLAMA_CLOUD_INDEX_NAME is required for the llamacloud provider")
	}

	return &LlamaCloudProvider{
		baseURL:        cfg.LlamaCloudBaseURL,
		apiKey:         cfg.LlamaCloudAPIKey,
		indexName:      cfg.LlamaCloudIndexName,
		projectName:    cfg.LlamaCloudProjectName,
		organizationID: cfg.LlamaCloudOrgID,
		// The caller bounds each request with its context deadline.
		client: &http.Client{},
	}, nil
}

type llamaCloudRequest struct {
	Query          string     `json:"query"`
	IndexName      string     `json:"index_name"`
	ProjectName    string     `json:"project_name"`
	OrganizationID string     `json:"organization_id,omitempty"`
	SystemPrompt   string     `json:"system_prompt"`
	SimilarityTopK int        `json:"similarity_top_k"`
	RerankTopN     int        `json:"rerank_top_n"`
	ChatHistory    []Exchange `json:"chat_history,omitempty"`
}

type llamaCloudResponse struct {
	Answer string `json:"answer"`
}

func (p *LlamaCloudProvider) Ask(ctx context.Context, question string, history []Exchange) (string, error) {
	payload := llamaCloudRequest{
		Query:          question,
		IndexName:      p.indexName,
		ProjectName:    p.projectName,
		OrganizationID: p.organizationID,
		SystemPrompt:   systemPrompt,
		SimilarityTopK: similarityTopK,
		RerankTopN:     rerankTopN,
		ChatHistory:    history,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal llamacloud request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+llamaCloudQueryPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build llamacloud request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return "", fmt.Errorf("llamacloud request timed out: %w", chatbot_errors.ErrUpstreamTimeout)
		}
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", markTransient(fmt.Errorf("llamacloud request failed: %v: %w", err, chatbot_errors.ErrUpstream))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", markTransient(fmt.Errorf("read llamacloud response: %v: %w", err, chatbot_errors.ErrUpstream))
	}

	if resp.StatusCode != http.StatusOK {
		wrapped := fmt.Errorf("llamacloud returned status %d: %w", resp.StatusCode, chatbot_errors.ErrUpstream)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return "", markTransient(wrapped)
		}
		return "", wrapped
	}

	var result llamaCloudResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse llamacloud response: %v: %w", err, chatbot_errors.ErrUpstream)
	}
	if result.Answer == "" {
		return "", fmt.Errorf("llamacloud returned an empty answer: %w", chatbot_errors.ErrUpstream)
	}

	return result.Answer, nil
}
