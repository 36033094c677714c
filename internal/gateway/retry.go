package gateway

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/Yug771/vishal-leadership-chatbot-backend-API/pkg/logger"
)

// Retry delays for exponential backoff on transient gateway failures.
var retryDelays = []time.Duration{
	250 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	2 * time.Second,
}

// jitterFactor is the ±percentage of jitter applied to delays.
const jitterFactor = 0.2

// retryProvider wraps a Provider with bounded retries. Only errors marked
// transient by the underlying provider are retried; timeouts, cancellation,
// and upstream rejections surface immediately.
type retryProvider struct {
	next       Provider
	maxRetries int
	log        *logger.Logger
}

func WithRetry(next Provider, maxRetries int, l *logger.Logger) Provider {
	return &retryProvider{next: next, maxRetries: maxRetries, log: l}
}

func (p *retryProvider) Ask(ctx context.Context, question string, history []Exchange) (string, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		answer, err := p.next.Ask(ctx, question, history)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		if !isTransient(err) || attempt >= p.maxRetries || ctx.Err() != nil {
			return "", lastErr
		}

		delay := nextRetryDelay(attempt)
		if p.log != nil {
			p.log.Warnf("answer gateway attempt %d failed, retrying in %s: %v", attempt+1, delay, err)
		}

		select {
		case <-ctx.Done():
			return "", lastErr
		case <-time.After(delay):
		}
	}
}

// Close forwards to the wrapped provider when it holds resources.
func (p *retryProvider) Close() error {
	if closer, ok := p.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// nextRetryDelay returns the backoff delay for a 0-indexed attempt with
// ±20% jitter to spread retries.
func nextRetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= len(retryDelays) {
		attempt = len(retryDelays) - 1
	}

	base := retryDelays[attempt]
	jitterRange := float64(base) * jitterFactor
	jitter := (rand.Float64()*2 - 1) * jitterRange

	return time.Duration(float64(base) + jitter)
}
