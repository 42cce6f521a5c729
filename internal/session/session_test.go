package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/webhook"
)

// --- Mocks ---

type staticEndpoint string

func (e staticEndpoint) URL() string { return string(e) }

type mockSender struct {
	mu      sync.Mutex
	calls   int
	gotURL  string
	gotProf profile.Profile
	gotQ    string

	result webhook.Result
	err    error
	// block, when set, is waited on before returning.
	block chan struct{}
}

func (m *mockSender) SendQuery(_ context.Context, url string, p profile.Profile, q string) (webhook.Result, error) {
	m.mu.Lock()
	m.calls++
	m.gotURL, m.gotProf, m.gotQ = url, p, q
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	return m.result, m.err
}

type memProfileStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memProfileStore) SetProfileKey(k, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k] = v
	return nil
}

func (m *memProfileStore) SetProfileKeys(kv map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range kv {
		m.data[k] = v
	}
	return nil
}

func (m *memProfileStore) GetAllProfileKeys() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[string]string, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}
	return cp, nil
}

func newTestSession(t *testing.T, url string, sender *mockSender) *Session {
	t.Helper()
	mgr, err := profile.NewManager(&memProfileStore{data: map[string]string{}})
	if err != nil {
		t.Fatal(err)
	}
	return New(Deps{
		Profile:  mgr,
		Endpoint: staticEndpoint(url),
		Client:   sender,
	})
}

// --- Tests ---

func TestSeed(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"", chat.OnboardingGreeting},
		{"https://example.com/hook", chat.ReadyGreeting},
	}
	for _, tt := range tests {
		s := newTestSession(t, tt.url, &mockSender{})
		s.Seed()
		s.Seed()

		msgs := s.Conversation().Messages()
		if len(msgs) != 1 {
			t.Fatalf("url %q: len = %d, want 1", tt.url, len(msgs))
		}
		if msgs[0].Role != chat.RoleAI || msgs[0].Content != tt.want {
			t.Errorf("url %q: greeting = %q", tt.url, msgs[0].Content)
		}
	}
}

func TestSubmit_BlankIsNoOp(t *testing.T) {
	sender := &mockSender{}
	s := newTestSession(t, "https://example.com/hook", sender)

	for _, in := range []string{"", "   ", "\n\t"} {
		ex, err := s.Submit(in)
		if ex != nil || err != nil {
			t.Errorf("Submit(%q) = %v, %v", in, ex, err)
		}
	}
	if s.Conversation().Len() != 0 || sender.calls != 0 {
		t.Error("blank input had side effects")
	}
}

func TestSubmit_UnconfiguredAppendsGuidance(t *testing.T) {
	sender := &mockSender{}
	s := newTestSession(t, "", sender)
	s.Seed()

	ex, err := s.Submit("  frontend roles in Berlin ")
	if ex != nil || err != nil {
		t.Fatalf("Submit = %v, %v", ex, err)
	}

	msgs := s.Conversation().Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[1].Role != chat.RoleUser || msgs[1].Content != "frontend roles in Berlin" {
		t.Errorf("user message = %+v", msgs[1])
	}
	if msgs[2].Role != chat.RoleAI || msgs[2].Content != chat.UnconfiguredNotice {
		t.Errorf("guidance = %+v", msgs[2])
	}
	if sender.calls != 0 {
		t.Errorf("network calls = %d, want 0", sender.calls)
	}
	if s.Loading() {
		t.Error("loading should stay false")
	}
}

func TestSend_SuccessAttachesJobs(t *testing.T) {
	sender := &mockSender{result: webhook.Result{
		ResponseText: "Found 2 jobs",
		Jobs:         []chat.Job{{Title: "A"}, {Title: "B"}},
	}}
	s := newTestSession(t, "https://example.com/hook", sender)

	reply, sent, err := s.Send(context.Background(), "react jobs")
	if err != nil || !sent {
		t.Fatalf("Send = %v, %v", sent, err)
	}
	if reply.Content != "Found 2 jobs" || len(reply.Jobs) != 2 || reply.Jobs[1].Title != "B" {
		t.Errorf("reply = %+v", reply)
	}
	if sender.gotURL != "https://example.com/hook" || sender.gotQ != "react jobs" {
		t.Errorf("sent url=%q query=%q", sender.gotURL, sender.gotQ)
	}
	if sender.gotProf.FullName != "Jane Doe" {
		t.Errorf("profile = %+v", sender.gotProf)
	}
	if s.Conversation().Len() != 2 || s.Loading() {
		t.Errorf("len=%d loading=%v", s.Conversation().Len(), s.Loading())
	}
}

func TestSend_ErrorBecomesAIMessage(t *testing.T) {
	rerr := &webhook.RemoteError{StatusCode: 500, Status: "Internal Server Error", Body: "boom"}
	s := newTestSession(t, "https://example.com/hook", &mockSender{err: rerr})

	reply, _, err := s.Send(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Send propagated error: %v", err)
	}
	if reply.Role != chat.RoleAI || !strings.HasPrefix(reply.Content, "Sorry, I encountered an error: ") {
		t.Errorf("reply = %+v", reply)
	}
	if !strings.Contains(reply.Content, "500") {
		t.Errorf("reply lacks status: %q", reply.Content)
	}
	if s.Loading() {
		t.Error("loading not cleared after failure")
	}

	if _, _, err := s.Send(context.Background(), "again"); err != nil {
		t.Errorf("session unusable after failure: %v", err)
	}
}

func TestSubmit_BusyWhileLoading(t *testing.T) {
	sender := &mockSender{
		result: webhook.Result{ResponseText: "ok"},
		block:  make(chan struct{}),
	}
	s := newTestSession(t, "https://example.com/hook", sender)

	ex, err := s.Submit("first")
	if err != nil || ex == nil {
		t.Fatalf("Submit = %v, %v", ex, err)
	}
	if !s.Loading() {
		t.Fatal("loading should be set after submit")
	}

	done := make(chan chat.Message)
	go func() { done <- ex.Run(context.Background()) }()

	if _, err := s.Submit("second"); !errors.Is(err, ErrBusy) {
		t.Errorf("second Submit err = %v, want ErrBusy", err)
	}

	close(sender.block)
	<-done

	if s.Loading() {
		t.Error("loading not cleared")
	}
	if ex, err := s.Submit("third"); err != nil || ex == nil {
		t.Errorf("Submit after completion = %v, %v", ex, err)
	}
}

func TestSubmit_ProfileCapturedAtSubmit(t *testing.T) {
	sender := &mockSender{result: webhook.Result{ResponseText: "ok"}}
	s := newTestSession(t, "https://example.com/hook", sender)

	ex, err := s.Submit("query")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Profile().AddSkill("Go"); err != nil {
		t.Fatal(err)
	}
	ex.Run(context.Background())

	if sender.gotProf.HasSkill("Go") {
		t.Error("in-flight request saw a later profile edit")
	}
}
