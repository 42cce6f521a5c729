// Package session ties the conversation, profile, endpoint and webhook client
// together into the single chat session of the application.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/webhook"
)

// ErrBusy is returned by Submit while a query is in flight.
var ErrBusy = errors.New("a request is already in progress")

// Sender sends a query to the webhook. *webhook.Client satisfies it.
type Sender interface {
	SendQuery(ctx context.Context, url string, p profile.Profile, query string) (webhook.Result, error)
}

// EndpointSource reports the committed webhook URL ("" when unset).
type EndpointSource interface {
	URL() string
}

// Deps are the collaborators of a Session.
type Deps struct {
	Conversation *chat.Conversation
	Profile      *profile.Manager
	Endpoint     EndpointSource
	Client       Sender
}

// Session owns the conversation and the profile manager. At most one query
// is in flight at a time.
type Session struct {
	conv     *chat.Conversation
	profile  *profile.Manager
	endpoint EndpointSource
	client   Sender

	mu      sync.Mutex
	loading bool
}

func New(d Deps) *Session {
	conv := d.Conversation
	if conv == nil {
		conv = chat.NewConversation()
	}
	return &Session{
		conv:     conv,
		profile:  d.Profile,
		endpoint: d.Endpoint,
		client:   d.Client,
	}
}

func (s *Session) Conversation() *chat.Conversation { return s.conv }
func (s *Session) Profile() *profile.Manager         { return s.profile }

// Seed appends the opening greeting when the transcript is empty. It has no
// effect on a transcript that already has messages.
func (s *Session) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.conv.IsEmpty() {
		return
	}
	text := chat.ReadyGreeting
	if s.endpoint.URL() == "" {
		text = chat.OnboardingGreeting
	}
	s.conv.Append(chat.NewMessage(chat.RoleAI, text))
}

// Loading reports whether a query is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Exchange is a submitted query waiting to be sent. The profile and URL are
// captured at submit time.
type Exchange struct {
	s       *Session
	url     string
	profile profile.Profile
	query   string
}

func (e *Exchange) Query() string { return e.query }

// Submit records the user's input and prepares the webhook call.
//
// Blank input is ignored and returns (nil, nil). While loading it returns
// ErrBusy. With no endpoint configured the user message and a guidance reply
// are appended together and (nil, nil) is returned; no request is made.
// Otherwise the user message is appended, loading is set and the returned
// Exchange must be Run.
func (s *Session) Submit(input string) (*Exchange, error) {
	query := strings.TrimSpace(input)
	if query == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return nil, ErrBusy
	}

	userMsg := chat.NewMessage(chat.RoleUser, query)
	url := s.endpoint.URL()
	if url == "" {
		s.conv.Append(userMsg, chat.NewMessage(chat.RoleAI, chat.UnconfiguredNotice))
		return nil, nil
	}

	s.conv.Append(userMsg)
	s.loading = true
	return &Exchange{
		s:       s,
		url:     url,
		profile: s.profile.Snapshot(),
		query:   query,
	}, nil
}

// Run performs the webhook call and appends the reply, or an error reply on
// failure, then clears the loading flag. It always completes with the
// appended message.
func (e *Exchange) Run(ctx context.Context) chat.Message {
	res, err := e.s.client.SendQuery(ctx, e.url, e.profile, e.query)

	var reply chat.Message
	if err != nil {
		slog.Warn("query failed", "error", err)
		reply = chat.NewMessage(chat.RoleAI, chat.ErrorReply(err))
	} else {
		reply = chat.NewMessage(chat.RoleAI, res.ResponseText, res.Jobs...)
	}

	e.s.mu.Lock()
	e.s.conv.Append(reply)
	e.s.loading = false
	e.s.mu.Unlock()
	return reply
}

// Send submits input and runs the exchange synchronously. The returned
// message is the last one appended, or false when nothing was sent.
func (s *Session) Send(ctx context.Context, input string) (chat.Message, bool, error) {
	ex, err := s.Submit(input)
	if err != nil {
		return chat.Message{}, false, err
	}
	if ex == nil {
		last, ok := s.conv.Last()
		if !ok || strings.TrimSpace(input) == "" {
			return chat.Message{}, false, nil
		}
		return last, true, nil
	}
	return ex.Run(ctx), true, nil
}
