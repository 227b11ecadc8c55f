// Package discussion builds the multi-participant AI discussion assistant on
// top of the ollamagate generation gateway: prompt templates for each
// discussion operation, a facade with one method per use case, and session
// persistence (a JSON file store and an embedded SQLite store).
//
// The gateway has no dependency on anything here; the assistant consumes the
// gateway through the small Generator interface and callers consult a Store
// before and after generation calls.
package discussion
