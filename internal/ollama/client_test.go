package ollama

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// Idle keep-alive connections owned by http.DefaultClient.
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// generatePayload mirrors the request body of /api/generate.
type generatePayload struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  *bool          `json:"stream"`
	Options map[string]any `json:"options"`
}

func serverParts(t *testing.T, srv *httptest.Server) (string, int) {
	t.Helper()
	addr, ok := srv.Listener.Addr().(*net.TCPAddr)
	require.True(t, ok)
	return "http://" + addr.IP.String(), addr.Port
}

func TestGenerate(t *testing.T) {
	var got generatePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    got.Model,
			"response": "  feat: add parser  ",
			"done":     true,
		})
	}))
	defer srv.Close()

	base, port := serverParts(t, srv)
	client, err := New(base, port, "llama3", 5*time.Second, 128)
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), "describe the change")
	require.NoError(t, err)

	assert.Equal(t, "feat: add parser", out)
	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "describe the change", got.Prompt)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
	assert.EqualValues(t, 128, got.Options["num_predict"])
}

func TestGenerateOmitsOptionsWithoutMaxTokens(t *testing.T) {
	var got generatePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer srv.Close()

	base, port := serverParts(t, srv)
	client, err := New(base, port, "llama3", time.Second, 0)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, got.Options)
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	base, port := serverParts(t, srv)
	client, err := New(base, port, "missing", time.Second, 0)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, "generate", llmErr.Op)
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "too late", "done": true})
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	base, port := serverParts(t, srv)
	client, err := New(base, port, "llama3", 50*time.Millisecond, 0)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
}

func TestGenerateConnectionRefused(t *testing.T) {
	// Port from a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base, port := serverParts(t, srv)
	srv.Close()

	client, err := New(base, port, "llama3", time.Second, 0)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), "p")

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com", 11434, "llama3", 0, 0)

	var llmErr *Error
	require.ErrorAs(t, err, &llmErr)
	assert.Equal(t, "configure", llmErr.Op)
}

func TestNewAppliesDefaultTimeout(t *testing.T) {
	client, err := New("http://localhost", 11434, "llama3", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.Equal(t, "llama3", client.Model())
}
