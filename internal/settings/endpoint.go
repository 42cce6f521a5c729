// Package settings manages the webhook endpoint: URL validation, the
// persisted committed URL, and the settings dialog with its connection test.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/kalambet/jobseek/internal/prefs"
	"github.com/kalambet/jobseek/internal/webhook"
)

// Endpoint is the committed webhook URL, persisted under prefs.KeyWebhookURL.
type Endpoint struct {
	store *prefs.Store
}

func NewEndpoint(store *prefs.Store) *Endpoint {
	return &Endpoint{store: store}
}

// URL returns the committed URL, or "" when unset.
func (e *Endpoint) URL() string {
	return prefs.Get(e.store, prefs.KeyWebhookURL, "")
}

func (e *Endpoint) Configured() bool {
	return e.URL() != ""
}

// Set validates and commits url.
func (e *Endpoint) Set(url string) error {
	if err := ValidateURL(url); err != nil {
		return err
	}
	if err := prefs.Set(e.store, prefs.KeyWebhookURL, strings.TrimSpace(url)); err != nil {
		return fmt.Errorf("saving webhook url: %w", err)
	}
	return nil
}

// Clear returns the endpoint to unset.
func (e *Endpoint) Clear() error {
	if err := e.store.Delete(prefs.KeyWebhookURL); err != nil {
		return fmt.Errorf("clearing webhook url: %w", err)
	}
	return nil
}

// Tester probes a webhook URL. *webhook.Client satisfies it.
type Tester interface {
	TestConnection(ctx context.Context, url string) webhook.ConnectionResult
}
