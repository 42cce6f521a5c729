package main

import (
	"fmt"
	"net/http"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/config"
	"github.com/kalambet/jobseek/internal/prefs"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/session"
	"github.com/kalambet/jobseek/internal/settings"
	"github.com/kalambet/jobseek/internal/storage"
	"github.com/kalambet/jobseek/internal/theme"
	"github.com/kalambet/jobseek/internal/webhook"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg      config.Config
	store    *storage.Store
	profile  *profile.Manager
	endpoint *settings.Endpoint
	client   *webhook.Client
	session  *session.Session
	dialog   *settings.Dialog
	themes   *theme.Store
}

// openApp loads configuration and opens the local store under the configured
// data directory.
func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	a, err := newApp(cfg, store, nil)
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg config.Config, store *storage.Store, httpClient *http.Client) (*app, error) {
	pm, err := profile.NewManager(store)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	ps := prefs.NewStore(store)
	conv := chat.NewConversation()
	endpoint := settings.NewEndpoint(ps)
	client := webhook.NewClient(httpClient)

	return &app{
		cfg:      cfg,
		store:    store,
		profile:  pm,
		endpoint: endpoint,
		client:   client,
		session: session.New(session.Deps{
			Conversation: conv,
			Profile:      pm,
			Endpoint:     endpoint,
			Client:       client,
		}),
		dialog: settings.NewDialog(endpoint, client, conv),
		themes: theme.NewStore(ps),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
