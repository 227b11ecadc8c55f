// Package ollamagate turns the single-shot HTTP generate call of a local
// Ollama backend into a dependable operation with bounded retries,
// exponential backoff, tiered timeouts, and broadcast cancellation.
//
// # Architecture
//
// The package is organized as a small stack of components:
//
//   - ModelAllowList: validates model identifiers before any network activity
//   - Broadcaster / Listener: process-wide cancellation fan-out
//   - Transport: one HTTP exchange per attempt, buffered or streaming
//   - lineFramer: incremental NDJSON token framing for streaming mode
//   - Engine: the retry/backoff state machine racing every wait against
//     cancellation
//   - Gateway: the single entry point callers use
//
// # Quick Start
//
// Buffered generation with environment-based configuration:
//
//	cfg, _ := ollamagate.ConfigFromEnv()
//	cancel := ollamagate.NewBroadcaster()
//	gw := ollamagate.New(cfg, cancel)
//
//	text, err := gw.Generate(ctx, ollamagate.GenerateOptions{
//	    Prompt: "自己紹介をしてください",
//	})
//
// Streaming generation delivers tokens to a sink as they arrive:
//
//	text, err := gw.Generate(ctx, ollamagate.GenerateOptions{
//	    Prompt: prompt,
//	    Sink: ollamagate.TokenSinkFunc(func(tok ollamagate.StreamToken) {
//	        fmt.Print(tok.Text)
//	    }),
//	})
//
// A "stop generation" action anywhere in the application interrupts every
// in-flight call:
//
//	cancel.Emit()
//
// # Cancellation Semantics
//
// Cancellation is global, not per-call: one Broadcaster instance is owned by
// the application root and shared by every gateway. A call that observes a
// cancellation terminates as CancelledError and never retries, regardless of
// remaining attempt budget. Timeouts, by contrast, count as transport errors
// and are retried up to the attempt ceiling.
package ollamagate
