package webhook

import (
	"errors"
	"fmt"
)

// NetworkError is a transport-level failure: the request never produced an
// HTTP response (bad URL, DNS, refused connection, cancellation).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("could not reach webhook: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx HTTP response from the webhook.
type RemoteError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("webhook returned an error: %d %s. Body: %s", e.StatusCode, e.Status, e.Body)
}

// FormatError is a 2xx response whose body does not satisfy the response contract.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response format from webhook: %s: %v", e.Reason, e.Err)
	}
	return "invalid response format from webhook: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsRemote(err error) bool {
	var re *RemoteError
	return errors.As(err, &re)
}

func IsFormat(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}
