package ollamagate

// GenerationRequest is the immutable wire-level input for one logical call.
// The model must already have passed the allow-list when one is constructed.
type GenerationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// StreamToken is a single decoded increment of a streaming response. The
// terminal token has Done set and carries the full concatenated text; no
// tokens follow it.
type StreamToken struct {
	Text string
	Done bool
	Full string
}

// TokenSink receives stream tokens in the order the backend produced them.
type TokenSink interface {
	OnToken(tok StreamToken)
}

// TokenSinkFunc adapts a plain function to the TokenSink interface.
type TokenSinkFunc func(tok StreamToken)

func (f TokenSinkFunc) OnToken(tok StreamToken) { f(tok) }

// generateResponse is the buffered-mode response document. A missing
// Response field marks the payload as malformed.
type generateResponse struct {
	Response *string `json:"response"`
}
