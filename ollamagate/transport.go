package ollamagate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Transport performs exactly one HTTP exchange with the backend per call.
// Per-attempt deadlines come from the caller's context, not the client.
type Transport struct {
	baseURL string
	client  *http.Client
}

// NewTransport creates a Transport for the backend at baseURL.
func NewTransport(baseURL string) *Transport {
	return &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Ping reports whether the backend is reachable. Any HTTP response counts,
// whatever the status; only a connection failure means unreachable.
func (t *Transport) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

// Generate performs one buffered exchange: the whole body is read, parsed as
// a single JSON document, and the response text field extracted. A missing
// field or unparseable document is a MalformedResponseError, retryable like
// a transport error.
func (t *Transport) Generate(ctx context.Context, genReq GenerationRequest) (string, error) {
	resp, err := t.post(ctx, genReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportErr("reading response body", err, ctx)
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &MalformedResponseError{GatewayError{Message: "response is not valid JSON", Cause: err}}
	}
	if decoded.Response == nil {
		return "", &MalformedResponseError{GatewayError{Message: "response field missing"}}
	}
	return *decoded.Response, nil
}

// GenerateStream performs one streaming exchange, passing bytes to the
// framer as they arrive and relaying decoded tokens to sink. It returns the
// full accumulated text.
func (t *Transport) GenerateStream(ctx context.Context, genReq GenerationRequest, sink TokenSink) (string, error) {
	resp, err := t.post(ctx, genReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	return readStream(ctx, resp.Body, sink)
}

func (t *Transport) post(ctx context.Context, genReq GenerationRequest) (*http.Response, error) {
	payload, err := json.Marshal(genReq)
	if err != nil {
		return nil, &TransportError{GatewayError: GatewayError{Message: "encoding request", Cause: err}}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{GatewayError: GatewayError{Message: "building request", Cause: err}}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportErr("sending request", err, ctx)
	}
	return resp, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &TransportError{GatewayError: GatewayError{
		Message: fmt.Sprintf("backend returned status %d", resp.StatusCode),
	}}
}

// classifyTransportErr maps a network error to the gateway taxonomy. Caller
// cancellation and deadline expiry are distinguished so only the latter is
// retried.
func classifyTransportErr(msg string, err error, ctx context.Context) error {
	switch {
	case errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled:
		return &CancelledError{}
	case errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded:
		return &TransportError{
			GatewayError: GatewayError{Message: msg + ": deadline exceeded", Cause: err},
			Timeout:      true,
		}
	default:
		return &TransportError{GatewayError: GatewayError{Message: msg, Cause: err}}
	}
}
