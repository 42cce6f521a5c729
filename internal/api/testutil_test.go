package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/prefs"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/session"
	"github.com/kalambet/jobseek/internal/settings"
	"github.com/kalambet/jobseek/internal/storage"
	"github.com/kalambet/jobseek/internal/theme"
	"github.com/kalambet/jobseek/internal/webhook"
)

type testEnv struct {
	deps     AppDeps
	endpoint *settings.Endpoint
	hook     *httptest.Server
	hookHits int
}

// newTestEnv wires a full session over an in-memory store. The fake webhook
// replies with body for every request.
func newTestEnv(t *testing.T, body string) *testEnv {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	env := &testEnv{}
	env.hook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hookHits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(env.hook.Close)

	p := prefs.NewStore(store)
	mgr, err := profile.NewManager(store)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	conv := chat.NewConversation()
	client := webhook.NewClient(env.hook.Client())
	env.endpoint = settings.NewEndpoint(p)

	env.deps = AppDeps{
		Session: session.New(session.Deps{
			Conversation: conv,
			Profile:      mgr,
			Endpoint:     env.endpoint,
			Client:       client,
		}),
		Dialog: settings.NewDialog(env.endpoint, client, conv),
		Theme:  theme.NewStore(p),
	}
	return env
}

func (e *testEnv) configure(t *testing.T) {
	t.Helper()
	if err := e.endpoint.Set(e.hook.URL); err != nil {
		t.Fatalf("setting endpoint: %v", err)
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
