package discussion

import (
	"context"

	"github.com/samber/lo"

	"github.com/gironlab/giron/ollamagate"
)

// Participant describes one AI discussant.
type Participant struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
}

// Generator is the slice of the generation gateway the assistant consumes.
// *ollamagate.Gateway satisfies it.
type Generator interface {
	Generate(ctx context.Context, opts ollamagate.GenerateOptions) (string, error)
	Ready(ctx context.Context) bool
}

// Assistant exposes one operation per discussion use case. Prompt
// construction goes through the template builders; generation, retries, and
// cancellation go through the gateway.
type Assistant struct {
	gen    Generator
	cancel *ollamagate.Broadcaster
	model  string
}

// AssistantOption customizes an Assistant.
type AssistantOption func(*Assistant)

// WithModel pins the model used for every operation. The gateway still
// validates it against the allow-list per call.
func WithModel(model string) AssistantOption {
	return func(a *Assistant) { a.model = model }
}

// NewAssistant creates an Assistant sharing the application's cancellation
// broadcaster with the gateway.
func NewAssistant(gen Generator, cancel *ollamagate.Broadcaster, opts ...AssistantOption) *Assistant {
	a := &Assistant{gen: gen, cancel: cancel}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// GenerateText runs a simple buffered generation on the raw prompt.
func (a *Assistant) GenerateText(ctx context.Context, prompt string) (string, error) {
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt})
}

// GenerateTextStream runs a streaming generation, relaying each token to
// sink as it arrives.
func (a *Assistant) GenerateTextStream(ctx context.Context, prompt string, sink ollamagate.TokenSink) (string, error) {
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt, Sink: sink})
}

// GenerateResponse produces one participant's next turn, conditioned on
// their role and the conversation so far.
func (a *Assistant) GenerateResponse(ctx context.Context, p Participant, history, topic string) (string, error) {
	prompt := BuildAIResponsePrompt(p.Name, p.Role, p.Description, history, topic)
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt})
}

// StartDiscussion produces the facilitator's opening statement for a topic.
func (a *Assistant) StartDiscussion(ctx context.Context, topic string, participants []Participant) (string, error) {
	prompt := BuildDiscussionStartPrompt(topic, participantNames(participants))
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt})
}

// AnalyzePoints runs the full point analysis over the whole conversation.
// Analysis work uses the long timeout tier.
func (a *Assistant) AnalyzePoints(ctx context.Context, topic, history string, participants []Participant) (string, error) {
	prompt := BuildDiscussionAnalysisPrompt(topic, history, participantNames(participants))
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt, Tier: ollamagate.TierLong})
}

// AnalyzeRecentPoints runs the lightweight analysis covering only recent
// turns, fast enough for the short tier.
func (a *Assistant) AnalyzeRecentPoints(ctx context.Context, topic, history string, participants []Participant) (string, error) {
	prompt := BuildLightweightAnalysisPrompt(topic, history, participantNames(participants))
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt})
}

// Summarize produces a full summary of the discussion so far.
func (a *Assistant) Summarize(ctx context.Context, topic, history string, participants []Participant) (string, error) {
	prompt := BuildDiscussionSummaryPrompt(topic, history, participantNames(participants))
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt, Tier: ollamagate.TierLong})
}

// SummarizeIncremental updates a previous summary with only the most recent
// turns.
func (a *Assistant) SummarizeIncremental(ctx context.Context, topic, previousSummary, history string, participants []Participant) (string, error) {
	prompt := BuildIncrementalSummaryPrompt(topic, previousSummary, history, participantNames(participants))
	return a.gen.Generate(ctx, ollamagate.GenerateOptions{Model: a.model, Prompt: prompt})
}

// StopGeneration interrupts every in-flight generation call.
func (a *Assistant) StopGeneration() {
	a.cancel.Emit()
}

// BackendReady reports whether the inference backend is reachable.
func (a *Assistant) BackendReady(ctx context.Context) bool {
	return a.gen.Ready(ctx)
}

func participantNames(participants []Participant) []string {
	return lo.Map(participants, func(p Participant, _ int) string { return p.Name })
}
