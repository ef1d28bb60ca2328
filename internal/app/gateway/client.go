// internal/app/gateway/client.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenSource supplies the current bearer token. An empty string means
// "no credential": the request is still sent and the server decides
// whether to reject it.
type TokenSource interface {
	CurrentToken() string
}

// Client talks to the remote StudyHub API. It owns no state beyond its
// configuration; all collection state lives in the stores.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// New creates a Client for the given API origin. timeout bounds each
// request; an expired deadline surfaces as a network failure.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     logger,
	}
}

// messageBody is the error (and delete-success) payload shape.
type messageBody struct {
	Message string `json:"message"`
}

// do performs one JSON round trip. On a 2xx response the body is
// decoded into out (which may be nil); any other outcome is returned
// as a *Error with op as context and fallback as the message of last
// resort.
func (c *Client) do(ctx context.Context, method, path string, in, out any, op, fallback string) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: op, Message: fallback}
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Message: fallback}
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.tokens.CurrentToken(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug("gateway request failed", zap.String("op", op), zap.Error(err))
		return &Error{Kind: KindNetwork, Op: op, Message: fallback}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		var mb messageBody
		if err := json.NewDecoder(resp.Body).Decode(&mb); err == nil && mb.Message != "" {
			msg = mb.Message
		}
		c.log.Debug("gateway request rejected",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode))
		return &Error{Kind: kindForStatus(resp.StatusCode), Op: op, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		// Malformed success body: recoverable, not a fault.
		return &Error{Kind: KindUnknown, Op: op, Message: fallback}
	}
	return nil
}

func idPath(base, id string) string {
	return fmt.Sprintf("%s/%s", base, id)
}
