package ollamagate

import (
	"context"
	"strings"
	"testing"
)

// collectSink records every token it receives.
type collectSink struct {
	tokens []StreamToken
}

func (s *collectSink) OnToken(tok StreamToken) {
	s.tokens = append(s.tokens, tok)
}

func (s *collectSink) texts() []string {
	var out []string
	for _, tok := range s.tokens {
		if !tok.Done {
			out = append(out, tok.Text)
		}
	}
	return out
}

func TestFramerTokenSequence(t *testing.T) {
	f := &lineFramer{}
	tokens := f.feed([]byte("{\"response\":\"A\"}\n{\"response\":\"B\"}\n{\"done\":true}\n"))

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Text != "A" || tokens[1].Text != "B" {
		t.Errorf("unexpected token texts: %q, %q", tokens[0].Text, tokens[1].Text)
	}
	last := tokens[2]
	if !last.Done {
		t.Fatal("expected terminal token last")
	}
	if last.Full != "AB" {
		t.Errorf("expected full text %q, got %q", "AB", last.Full)
	}
}

func TestFramerChunkedAcrossBoundaries(t *testing.T) {
	input := "{\"response\":\"こん\"}\n{\"response\":\"にちは\"}\n{\"done\":true}\n"
	f := &lineFramer{}

	var tokens []StreamToken
	for i := 0; i < len(input); i++ {
		tokens = append(tokens, f.feed([]byte{input[i]})...)
	}

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[2].Full != "こんにちは" {
		t.Errorf("expected full text %q, got %q", "こんにちは", tokens[2].Full)
	}
}

func TestFramerSkipsMalformedLines(t *testing.T) {
	f := &lineFramer{}
	tokens := f.feed([]byte("{\"response\":\"A\"}\nnot json at all\n{\"response\":\"B\"}\n{\"done\":true}\n"))

	if len(tokens) != 3 {
		t.Fatalf("expected malformed line to be skipped, got %d tokens", len(tokens))
	}
	if tokens[2].Full != "AB" {
		t.Errorf("expected full text %q, got %q", "AB", tokens[2].Full)
	}
}

func TestFramerSkipsEmptyAndWhitespaceLines(t *testing.T) {
	f := &lineFramer{}
	tokens := f.feed([]byte("\n  \n{\"response\":\"A\"}\n\t\n{\"done\":true}\n"))

	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Text != "A" || !tokens[1].Done {
		t.Errorf("unexpected tokens: %+v", tokens)
	}
}

func TestFramerStopsAfterDone(t *testing.T) {
	f := &lineFramer{}
	tokens := f.feed([]byte("{\"response\":\"A\"}\n{\"done\":true}\n{\"response\":\"ignored\"}\n"))

	if len(tokens) != 2 {
		t.Fatalf("expected no tokens after terminal marker, got %d", len(tokens))
	}
	if !tokens[len(tokens)-1].Done {
		t.Error("expected terminal token last")
	}
}

func TestReadStreamExplicitCompletion(t *testing.T) {
	body := strings.NewReader("{\"response\":\"A\"}\n{\"response\":\"B\"}\n{\"done\":true}\n")
	sink := &collectSink{}

	full, err := readStream(context.Background(), body, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "AB" {
		t.Errorf("expected %q, got %q", "AB", full)
	}
	texts := sink.texts()
	if len(texts) != 2 || texts[0] != "A" || texts[1] != "B" {
		t.Errorf("unexpected token order: %v", texts)
	}
	last := sink.tokens[len(sink.tokens)-1]
	if !last.Done || last.Full != "AB" {
		t.Errorf("terminal token must carry the full text, got %+v", last)
	}
}

func TestReadStreamImplicitCompletion(t *testing.T) {
	// Stream ends without a done marker: treated as completion, not an error.
	body := strings.NewReader("{\"response\":\"A\"}\n")
	sink := &collectSink{}

	full, err := readStream(context.Background(), body, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "A" {
		t.Errorf("expected %q, got %q", "A", full)
	}
	last := sink.tokens[len(sink.tokens)-1]
	if !last.Done || last.Full != "A" {
		t.Errorf("expected implicit terminal token with full text, got %+v", last)
	}
}

func TestReadStreamConcatenationMatchesFull(t *testing.T) {
	body := strings.NewReader("{\"response\":\"foo \"}\n{\"response\":\"bar \"}\n{\"response\":\"baz\"}\n{\"done\":true}\n")
	sink := &collectSink{}

	full, err := readStream(context.Background(), body, sink)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined := strings.Join(sink.texts(), ""); joined != full {
		t.Errorf("token concatenation %q != full text %q", joined, full)
	}
}

func TestReadStreamNilSink(t *testing.T) {
	body := strings.NewReader("{\"response\":\"A\"}\n{\"done\":true}\n")
	full, err := readStream(context.Background(), body, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if full != "A" {
		t.Errorf("expected %q, got %q", "A", full)
	}
}
