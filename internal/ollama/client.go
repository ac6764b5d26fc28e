// Package ollama is the language-model collaborator: a thin wrapper
// around the Ollama API used to generate commit message candidates.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/Buttje/aicheckin/internal/logging"
)

// DefaultTimeout bounds one generation request when the config does not
// set request_timeout.
const DefaultTimeout = 60 * time.Second

// Error wraps any failure talking to the model server: connection
// errors, timeouts, and non-2xx responses all surface as *Error so the
// exit-code mapping can recognize them.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client talks to one Ollama server and model.
type Client struct {
	api       *api.Client
	model     string
	timeout   time.Duration
	maxTokens int
}

// New builds a client for the server at baseURL:port. timeout and
// maxTokens come from the configuration file; a zero timeout falls back
// to DefaultTimeout and a zero maxTokens leaves the model default.
func New(baseURL string, port int, model string, timeout time.Duration, maxTokens int) (*Client, error) {
	raw := fmt.Sprintf("%s:%d", strings.TrimRight(baseURL, "/"), port)
	base, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Op: "configure", Err: fmt.Errorf("invalid server URL %q: %w", raw, err)}
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, &Error{Op: "configure", Err: fmt.Errorf("unsupported scheme in server URL %q", raw)}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		api:       api.NewClient(base, http.DefaultClient),
		model:     model,
		timeout:   timeout,
		maxTokens: maxTokens,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Available reports whether the server answers at all. Used for the
// connection check before the first generation request.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.api.Heartbeat(ctx) == nil
}

// Generate sends one non-streaming completion request and returns the
// raw response text. Timeouts, transport failures, and error statuses
// are returned as *Error; the caller decides whether that is fatal.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: &stream,
	}
	if c.maxTokens > 0 {
		req.Options = map[string]any{"num_predict": c.maxTokens}
	}

	logging.Get(ctx).Debug().
		Str("model", c.model).
		Int("prompt_chars", len(prompt)).
		Msg("sending generation request")

	var out strings.Builder
	err := c.api.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", &Error{Op: "generate", Err: err}
	}
	return strings.TrimSpace(out.String()), nil
}
