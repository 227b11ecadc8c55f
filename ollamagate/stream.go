package ollamagate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
)

// streamLine is one NDJSON line of a streaming response.
type streamLine struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// lineFramer incrementally splits a raw byte stream into NDJSON lines and
// decodes each into a StreamToken, accumulating the full text along the way.
type lineFramer struct {
	buf  []byte
	full strings.Builder
}

// feed appends a chunk and returns the tokens completed by it, in order. A
// terminal token, when present, is always last; input after it is dropped.
func (f *lineFramer) feed(chunk []byte) []StreamToken {
	f.buf = append(f.buf, chunk...)
	var tokens []StreamToken
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			return tokens
		}
		line := bytes.TrimSpace(f.buf[:i])
		f.buf = f.buf[i+1:]
		if len(line) == 0 {
			continue
		}
		var decoded streamLine
		if err := json.Unmarshal(line, &decoded); err != nil {
			// Malformed lines are skipped, not fatal.
			continue
		}
		if decoded.Done {
			tokens = append(tokens, f.finish())
			return tokens
		}
		if decoded.Response != "" {
			f.full.WriteString(decoded.Response)
			tokens = append(tokens, StreamToken{Text: decoded.Response})
		}
	}
}

// finish produces the terminal token carrying the full accumulated text.
func (f *lineFramer) finish() StreamToken {
	return StreamToken{Done: true, Full: f.full.String()}
}

// readStream consumes the response body chunk by chunk, relaying tokens to
// sink as they arrive, and returns the full accumulated text. A stream that
// ends without an explicit done marker counts as an implicit completion.
func readStream(ctx context.Context, body io.Reader, sink TokenSink) (string, error) {
	framer := &lineFramer{}
	chunk := make([]byte, 4096)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			for _, tok := range framer.feed(chunk[:n]) {
				if sink != nil {
					sink.OnToken(tok)
				}
				if tok.Done {
					return tok.Full, nil
				}
			}
		}
		if err == io.EOF {
			tok := framer.finish()
			if sink != nil {
				sink.OnToken(tok)
			}
			return tok.Full, nil
		}
		if err != nil {
			return "", classifyTransportErr("reading stream", err, ctx)
		}
	}
}
