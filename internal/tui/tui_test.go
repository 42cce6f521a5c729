package tui

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/prefs"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/session"
	"github.com/kalambet/jobseek/internal/settings"
	"github.com/kalambet/jobseek/internal/storage"
	"github.com/kalambet/jobseek/internal/theme"
	"github.com/kalambet/jobseek/internal/webhook"
)

type fixture struct {
	endpoint *settings.Endpoint
	hookURL  string
	deps     Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"responseText":"Found 1 job","jobs":[{"title":"Go Dev","company":"Acme","url":"https://acme.example/1"}]}`)
	}))
	t.Cleanup(hook.Close)

	p := prefs.NewStore(store)
	mgr, err := profile.NewManager(store)
	if err != nil {
		t.Fatal(err)
	}
	conv := chat.NewConversation()
	client := webhook.NewClient(nil)
	ep := settings.NewEndpoint(p)

	return &fixture{
		endpoint: ep,
		hookURL:  hook.URL,
		deps: Deps{
			Session: session.New(session.Deps{Conversation: conv, Profile: mgr, Endpoint: ep, Client: client}),
			Dialog:  settings.NewDialog(ep, client, conv),
			Themes:  theme.NewStore(p),
		},
	}
}

func newSizedModel(t *testing.T, f *fixture) Model {
	t.Helper()
	m := New(f.deps)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func typeLine(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	m.textarea.SetValue(s)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestNew_SeedsGreeting(t *testing.T) {
	f := newFixture(t)
	m := newSizedModel(t, f)

	msgs := f.deps.Session.Conversation().Messages()
	if len(msgs) != 1 || msgs[0].Content != chat.OnboardingGreeting {
		t.Fatalf("messages = %+v", msgs)
	}
	if !strings.Contains(m.View(), "Welcome!") {
		t.Error("greeting not rendered")
	}
}

func TestSend_Unconfigured(t *testing.T) {
	f := newFixture(t)
	m := newSizedModel(t, f)

	m, cmd := typeLine(t, m, "frontend jobs")
	if cmd != nil {
		t.Error("unconfigured send should not start a request")
	}
	last, _ := f.deps.Session.Conversation().Last()
	if last.Content != chat.UnconfiguredNotice {
		t.Errorf("last = %q", last.Content)
	}
	if m.textarea.Value() != "" {
		t.Error("input not cleared")
	}
}

func TestSend_ConfiguredRunsExchange(t *testing.T) {
	f := newFixture(t)
	if err := f.endpoint.Set(f.hookURL); err != nil {
		t.Fatal(err)
	}
	m := newSizedModel(t, f)

	m, cmd := typeLine(t, m, "go jobs")
	if cmd == nil {
		t.Fatal("expected a request command")
	}
	if !f.deps.Session.Loading() {
		t.Error("session should be loading")
	}

	msg := cmd()
	reply, ok := msg.(replyMsg)
	if !ok {
		t.Fatalf("cmd returned %T", msg)
	}
	if len(reply.msg.Jobs) != 1 {
		t.Errorf("reply jobs = %d", len(reply.msg.Jobs))
	}

	next, _ := m.Update(reply)
	view := next.(Model).View()
	if !strings.Contains(view, "Go Dev") || !strings.Contains(view, "Acme") {
		t.Errorf("job card not rendered:\n%s", view)
	}
}

func TestCommands_ThemeAndBackground(t *testing.T) {
	f := newFixture(t)
	m := newSizedModel(t, f)

	m, _ = typeLine(t, m, "/theme rose")
	if m.appearance.Palette.Key != "rose" {
		t.Errorf("palette = %s", m.appearance.Palette.Key)
	}
	if f.deps.Themes.Load().Palette.Key != "rose" {
		t.Error("theme not persisted")
	}

	m, _ = typeLine(t, m, "/background neon")
	if m.appearance.Background.Key != "plain" || !strings.Contains(m.panel, "backgrounds:") {
		t.Errorf("bad background accepted, panel = %q", m.panel)
	}
}

func TestCommands_Profile(t *testing.T) {
	f := newFixture(t)
	m := newSizedModel(t, f)

	m, _ = typeLine(t, m, "/skill add Go")
	m, _ = typeLine(t, m, "/skill rm React")
	m, _ = typeLine(t, m, "/set fullName Ada Lovelace")

	p := f.deps.Session.Profile().Snapshot()
	if !p.HasSkill("Go") || p.HasSkill("React") || p.FullName != "Ada Lovelace" {
		t.Errorf("profile = %+v", p)
	}

	m, _ = typeLine(t, m, "/set salary 1")
	if !strings.Contains(m.panel, "fields:") {
		t.Errorf("panel = %q", m.panel)
	}

	m, _ = typeLine(t, m, "/profile")
	if !strings.Contains(m.panel, "Ada Lovelace") {
		t.Errorf("panel = %q", m.panel)
	}

	if f.deps.Session.Conversation().Len() != 1 {
		t.Error("slash commands must not reach the conversation")
	}
}

func TestSettingsOverlay_SaveOnClose(t *testing.T) {
	f := newFixture(t)
	m := newSizedModel(t, f)

	m, _ = typeLine(t, m, "/settings")
	if !m.showSettings || !f.deps.Dialog.State().Open {
		t.Fatal("settings not open")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("not-a-url")})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.showSettings {
		t.Fatal("invalid draft should keep settings open")
	}
	if !strings.Contains(m.View(), settings.MsgURLInvalid) {
		t.Error("field error not shown")
	}

	m.urlInput.SetValue("")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("https://example.com/hook")})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if m.showSettings {
		t.Error("settings should be closed")
	}
	if f.endpoint.URL() != "https://example.com/hook" {
		t.Errorf("URL = %q", f.endpoint.URL())
	}
}

func TestSettingsOverlay_TestAndReset(t *testing.T) {
	f := newFixture(t)
	if err := f.endpoint.Set(f.hookURL); err != nil {
		t.Fatal(err)
	}
	m := newSizedModel(t, f)
	m, _ = typeLine(t, m, "/settings")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(Model)
	if cmd == nil || !m.testing {
		t.Fatal("ctrl+t should start a test")
	}
	res := cmd().(testResultMsg)
	if res.state.Test != settings.TestSuccess {
		t.Errorf("test state = %v (%s)", res.state.Test, res.state.TestError)
	}
	next, _ = m.Update(res)
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	if m.showSettings || f.endpoint.URL() != "" {
		t.Error("reset should clear URL and close")
	}
	last, _ := f.deps.Session.Conversation().Last()
	if last.Content != chat.ClearedNotice {
		t.Errorf("last = %q", last.Content)
	}
}

func TestBusySubmitShowsError(t *testing.T) {
	f := newFixture(t)
	if err := f.endpoint.Set(f.hookURL); err != nil {
		t.Fatal(err)
	}
	m := newSizedModel(t, f)

	m, cmd := typeLine(t, m, "first")
	m, _ = typeLine(t, m, "second")
	if !strings.Contains(m.panel, session.ErrBusy.Error()) {
		t.Errorf("panel = %q", m.panel)
	}
	cmd()

	if _, _, err := f.deps.Session.Send(context.Background(), "third"); err != nil {
		t.Errorf("session stuck after busy: %v", err)
	}
}

func TestHyperlink(t *testing.T) {
	got := hyperlink("https://x.example", "open")
	if !strings.Contains(got, "https://x.example") || !strings.Contains(got, "open") {
		t.Errorf("hyperlink = %q", got)
	}
}
