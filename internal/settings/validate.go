package settings

import (
	"net/url"
	"strings"
)

// Field validation messages.
const (
	MsgURLEmpty   = "Webhook URL cannot be empty"
	MsgURLInvalid = "Please enter a valid URL"
)

// ValidationError describes malformed URL input. It is shown next to the
// input field and never reaches the conversation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ValidateURL accepts an absolute URL with a scheme and a host.
func ValidateURL(raw string) error {
	s := strings.TrimSpace(raw)
	if s == "" {
		return &ValidationError{Message: MsgURLEmpty}
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return &ValidationError{Message: MsgURLInvalid}
	}
	return nil
}
