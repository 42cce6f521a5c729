package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kalambet/jobseek/internal/chat"
)

// ErrNotOpen is returned by operations that only apply while the dialog is open.
var ErrNotOpen = errors.New("settings dialog is not open")

// DialogState is a read-only snapshot of the dialog for rendering.
type DialogState struct {
	Open       bool      `json:"open"`
	Draft      string    `json:"draft"`
	Committed  string    `json:"committed"`
	FieldError string    `json:"fieldError,omitempty"`
	Test       TestState `json:"testState"`
	TestError  string    `json:"testError,omitempty"`
}

// Dialog is the settings surface. Edits go to a draft; the draft is committed
// only when the dialog closes (or through Reset).
type Dialog struct {
	endpoint *Endpoint
	tester   Tester
	conv     *chat.Conversation

	mu         sync.Mutex
	open       bool
	draft      string
	fieldError string
	test       TestState
	testError  string
	// gen increments on every draft change so a probe started on an older
	// draft cannot overwrite the state of the current one.
	gen uint64
}

func NewDialog(endpoint *Endpoint, tester Tester, conv *chat.Conversation) *Dialog {
	return &Dialog{endpoint: endpoint, tester: tester, conv: conv}
}

// Open loads the committed URL into the draft and clears any error.
func (d *Dialog) Open() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.draft = d.endpoint.URL()
	d.resetTransientLocked()
}

// SetDraft replaces the draft text. Any test result is discarded.
func (d *Dialog) SetDraft(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrNotOpen
	}
	d.draft = s
	d.resetTransientLocked()
	return nil
}

func (d *Dialog) resetTransientLocked() {
	d.fieldError = ""
	d.test = TestIdle
	d.testError = ""
	d.gen++
}

// Test validates the draft and probes it. A validation failure sets the
// field error and skips the probe. The probe runs without holding the lock.
func (d *Dialog) Test(ctx context.Context) (DialogState, error) {
	d.mu.Lock()
	if !d.open {
		st := d.stateLocked()
		d.mu.Unlock()
		return st, ErrNotOpen
	}
	draft := d.draft
	if err := ValidateURL(draft); err != nil {
		d.fieldError = err.Error()
		st := d.stateLocked()
		d.mu.Unlock()
		return st, nil
	}
	d.fieldError = ""
	d.test = TestTesting
	d.testError = ""
	gen := d.gen
	d.mu.Unlock()

	res := d.tester.TestConnection(ctx, strings.TrimSpace(draft))

	d.mu.Lock()
	defer d.mu.Unlock()
	if gen == d.gen && d.open {
		if res.Success {
			d.test = TestSuccess
		} else {
			d.test = TestError
			d.testError = res.Error
			if d.testError == "" {
				d.testError = "An unknown error occurred."
			}
		}
	}
	return d.stateLocked(), nil
}

// Close commits the draft and closes the dialog. An unchanged draft closes
// with no side effect; an empty draft runs the reset flow; an invalid draft
// returns a *ValidationError and leaves the dialog open with nothing saved.
// Closing a dialog that is not open returns ErrNotOpen and changes nothing.
func (d *Dialog) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrNotOpen
	}

	draft := strings.TrimSpace(d.draft)
	committed := d.endpoint.URL()

	switch {
	case draft == committed:
	case draft == "":
		if err := d.resetLocked(); err != nil {
			return err
		}
	default:
		if err := ValidateURL(draft); err != nil {
			d.fieldError = err.Error()
			return err
		}
		if err := d.saveLocked(draft); err != nil {
			return err
		}
	}

	d.open = false
	d.resetTransientLocked()
	return nil
}

// Reset clears the committed URL and closes the dialog.
func (d *Dialog) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return ErrNotOpen
	}

	if err := d.resetLocked(); err != nil {
		return err
	}
	d.open = false
	d.resetTransientLocked()
	return nil
}

func (d *Dialog) resetLocked() error {
	if err := d.endpoint.Clear(); err != nil {
		return fmt.Errorf("resetting endpoint: %w", err)
	}
	d.draft = ""
	d.conv.Append(chat.NewMessage(chat.RoleAI, chat.ClearedNotice))
	return nil
}

func (d *Dialog) saveLocked(url string) error {
	if err := d.endpoint.Set(url); err != nil {
		return err
	}
	d.draft = url
	if last, ok := d.conv.Last(); ok && last.Role == chat.RoleAI && last.Content == chat.ClearedNotice {
		d.conv.Append(chat.NewMessage(chat.RoleAI, chat.SavedConfirmation))
	}
	return nil
}

// State returns a snapshot for rendering.
func (d *Dialog) State() DialogState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stateLocked()
}

func (d *Dialog) stateLocked() DialogState {
	return DialogState{
		Open:       d.open,
		Draft:      d.draft,
		Committed:  d.endpoint.URL(),
		FieldError: d.fieldError,
		Test:       d.test,
		TestError:  d.testError,
	}
}
