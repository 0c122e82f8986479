package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/codequiz/internal/store"
)

// RequestSink receives one record per provider call.
type RequestSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider records every call to the wrapped provider. A failed
// append is logged and never fails the call itself.
type LoggingProvider struct {
	inner    Provider
	provider string
	sink     RequestSink
	log      *slog.Logger
}

// WithLogging wraps p. provider names the backend in the stored events.
// A nil logger discards append failures.
func WithLogging(p Provider, provider string, sink RequestSink, log *slog.Logger) Provider {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LoggingProvider{inner: p, provider: provider, sink: sink, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	if appendErr := l.sink.AppendLLMRequest(context.WithoutCancel(ctx), data); appendErr != nil {
		l.log.Warn("failed to record llm request",
			"provider", l.provider, "purpose", data.Purpose, "error", appendErr)
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }
