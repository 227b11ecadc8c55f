package ollamagate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// TimeoutTier selects the per-attempt deadline for an operation.
// Conversational turns use the short tier; analysis and summary work the
// long tier.
type TimeoutTier int

const (
	TierShort TimeoutTier = iota
	TierLong
)

// GenerateOptions configures a single gateway call.
type GenerateOptions struct {
	// Model overrides the configured default model when non-empty.
	Model  string
	Prompt string
	Tier   TimeoutTier
	// Sink selects streaming mode when non-nil; tokens are relayed to it in
	// order and the terminal token carries the complete text.
	Sink TokenSink
}

// Gateway is the single entry point for generation calls. It validates the
// requested model, builds the wire request, and drives the retry engine in
// buffered or streaming mode.
type Gateway struct {
	cfg       Config
	allow     ModelAllowList
	transport *Transport
	engine    *Engine
	logger    *slog.Logger
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) { g.logger = logger }
}

// WithHTTPClient overrides the transport's HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.transport.client = client }
}

// New creates a Gateway. The broadcaster is owned by the caller and shared
// between every gateway and the application's stop action; the gateway never
// creates its own.
func New(cfg Config, cancel *Broadcaster, opts ...Option) *Gateway {
	g := &Gateway{
		cfg:       cfg,
		allow:     ModelAllowList(cfg.AllowedModelPrefixes),
		transport: NewTransport(cfg.BaseURL),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.engine = &Engine{
		cancel:     cancel,
		maxRetries: cfg.MaxRetries,
		baseDelay:  cfg.BaseDelay,
	}
	return g
}

// Generate runs one generation call to completion, buffered unless
// opts.Sink is set. Only UnsupportedModelError, CancelledError, and
// ExhaustedRetriesError cross this boundary; individual attempt failures
// are retried internally.
func (g *Gateway) Generate(ctx context.Context, opts GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.cfg.Model
	}
	if !g.allow.Allowed(model) {
		g.logger.Warn("model rejected by allow-list", "model", model)
		return "", &UnsupportedModelError{Model: model}
	}

	req := GenerationRequest{Model: model, Prompt: opts.Prompt, Stream: opts.Sink != nil}
	timeout := g.cfg.ShortTimeout
	if opts.Tier == TierLong {
		timeout = g.cfg.LongTimeout
	}

	logger := g.logger.With("call_id", uuid.NewString(), "model", model, "stream", req.Stream)
	logger.Debug("generation call starting", "prompt_len", len(opts.Prompt), "timeout", timeout)

	text, err := g.engine.run(ctx, logger, timeout, func(ctx context.Context) (string, error) {
		if req.Stream {
			return g.transport.GenerateStream(ctx, req, opts.Sink)
		}
		return g.transport.Generate(ctx, req)
	})
	if err != nil {
		logger.Warn("generation call failed", "err", err)
		return "", err
	}
	logger.Debug("generation call complete", "response_len", len(text))
	return text, nil
}

// Ready reports whether the backend answers at its base URL. Any HTTP
// response counts as reachable.
func (g *Gateway) Ready(ctx context.Context) bool {
	return g.transport.Ping(ctx)
}
