// Package gateway talks to the external question-answering service over the
// course knowledge base. The concrete provider is behind the Provider
// interface so it can be swapped by configuration or mocked in tests.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/config"
	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"
)

// Exchange is one prior question/response pair, passed to the provider so
// follow-up questions can be grounded in the conversation.
type Exchange struct {
	Question string `json:"question"`
	Response string `json:"response"`
}

// Provider answers a single question. Implementations must honor ctx
// cancellation and classify failures with the pkg/errors sentinels.
type Provider interface {
	Ask(ctx context.Context, question string, history []Exchange) (string, error)
}

type ProviderType string

const (
	ProviderLlamaCloud ProviderType = "llamacloud"
	ProviderGemini     ProviderType = "gemini"
)

// systemPrompt frames every upstream call. The course identity is part of
// the product, not configuration.
const systemPrompt = `You are a virtual mentor for a Leadership Skills course, taught by Professor Vishal Gupta from IIM Ahmedabad. Your role is to provide comprehensive, accurate, and relevant answers to questions about leadership skills. Adhere to the following guidelines:

1. **Exclusive Use of Course Content**: Use ONLY the information provided in the course transcripts. Do not use external knowledge or sources.
2. **Accurate Reference**: Always include the relevant week and topic title(s) in your answer, formatting it as: [Week X: Topic Title].
3. **Handling Unanswerable Questions**: If the question cannot be answered using the provided transcripts, state this clearly.
4. **Strict Non-Inference Policy**: Do not infer information not explicitly stated in the provided content.
5. **Structured and Clear Responses**: Ensure your responses are well-structured and directly quote from the transcript when appropriate.
6. **Mentor-like Tone**: Phrase your responses as a supportive virtual mentor, offering guidance and insights based on the course material.
7. **Comprehensive Answers**: Provide thorough answers, elaborating on key points and connecting ideas from different parts of the course when relevant.
8. **Consistency**: Maintain consistency in style and adherence to the guidelines throughout your responses.

Remember, accuracy and relevance to the provided course content are paramount.`

// NewProvider builds the configured provider, wrapped with the retry policy
// when retries are enabled.
func NewProvider(ctx context.Context, cfg *config.Config, l *logger.Logger) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch ProviderType(cfg.AnswerProvider) {
	case ProviderLlamaCloud:
		p, err = NewLlamaCloudProvider(cfg)
	case ProviderGemini:
		p, err = NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown answer provider %q", cfg.AnswerProvider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.GatewayMaxRetries > 0 {
		p = WithRetry(p, cfg.GatewayMaxRetries, l)
	}
	return p, nil
}

// transientError marks failures worth retrying (network faults, upstream
// 5xx, quota pushback). Timeouts and caller mistakes are never transient.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func markTransient(err error) error {
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// isNetworkError reports whether err looks like a connectivity failure
// rather than an upstream rejection.
func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError reports whether the upstream pushed back on volume, which is
// worth retrying after a backoff.
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}
