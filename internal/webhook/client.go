// Package webhook talks to the user's job-search webhook: it sends queries
// with the profile attached, validates the response contract and classifies
// failures.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
)

// maxErrorBody caps how much of a failed response body is kept in a RemoteError.
const maxErrorBody = 4096

// Connection test failure messages.
const (
	MsgEmptyURL      = "Webhook URL is empty."
	MsgNetworkError  = "Network error or invalid URL."
	MsgNotJSONObject = "Webhook responded, but not with a JSON object."
	MsgUnknown       = "An unknown error occurred."
)

// Result is a validated webhook reply.
type Result struct {
	ResponseText string
	Jobs         []chat.Job
}

// ConnectionResult is the outcome of TestConnection. Error is set only when
// Success is false.
type ConnectionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type queryRequest struct {
	Profile profile.Profile `json:"profile"`
	Query   string          `json:"query"`
}

type probeRequest struct {
	TestConnection bool `json:"testConnection"`
}

// Client sends requests to a webhook URL supplied per call. It performs no
// retries and sets no timeout of its own.
type Client struct {
	httpClient *http.Client
}

// NewClient wraps httpClient. A nil httpClient uses a client with transport
// defaults only.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{httpClient: httpClient}
}

// SendQuery posts {profile, query} to endpoint and returns the validated reply.
// Failures are *NetworkError, *RemoteError or *FormatError.
func (c *Client) SendQuery(ctx context.Context, endpoint string, p profile.Profile, query string) (Result, error) {
	body, err := json.Marshal(queryRequest{Profile: p.Clone(), Query: query})
	if err != nil {
		return Result{}, fmt.Errorf("marshaling request: %w", err)
	}

	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		rerr := &RemoteError{
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Body:       string(respBody),
		}
		slog.Warn("webhook query failed", "host", hostOf(endpoint), "status", resp.StatusCode)
		return Result{}, rerr
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}
	return decodeResult(respBody)
}

// decodeResult applies the response contract: a JSON object with a string
// responseText and an optional jobs array. Job entries are not validated.
func decodeResult(body []byte) (Result, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return Result{}, &FormatError{Reason: "response is not a JSON object", Err: err}
	}

	var text string
	raw, ok := obj["responseText"]
	if !ok || !isJSONString(raw) {
		return Result{}, &FormatError{Reason: `response missing required text field "responseText"`}
	}
	if err := json.Unmarshal(raw, &text); err != nil {
		return Result{}, &FormatError{Reason: `response missing required text field "responseText"`, Err: err}
	}

	res := Result{ResponseText: text, Jobs: []chat.Job{}}
	if rawJobs, ok := obj["jobs"]; ok {
		var jobs []chat.Job
		if err := json.Unmarshal(rawJobs, &jobs); err == nil && jobs != nil {
			res.Jobs = jobs
		}
	}
	return res, nil
}

// TestConnection posts a probe to endpoint and reports whether the webhook answered
// with a JSON object. It never returns an error; failures are described in
// ConnectionResult.Error.
func (c *Client) TestConnection(ctx context.Context, endpoint string) ConnectionResult {
	if strings.TrimSpace(endpoint) == "" {
		return ConnectionResult{Error: MsgEmptyURL}
	}

	body, err := json.Marshal(probeRequest{TestConnection: true})
	if err != nil {
		return ConnectionResult{Error: MsgUnknown}
	}

	resp, err := c.post(ctx, endpoint, body)
	if err != nil {
		if IsNetwork(err) {
			return ConnectionResult{Error: MsgNetworkError}
		}
		return ConnectionResult{Error: MsgUnknown}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ConnectionResult{Error: fmt.Sprintf("Request failed with status %d %s.", resp.StatusCode, statusText(resp))}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ConnectionResult{Error: MsgUnknown}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &obj); err != nil || obj == nil {
		return ConnectionResult{Error: MsgNotJSONObject}
	}
	return ConnectionResult{Success: true}
}

// post sends body as JSON. Request construction and transport failures are
// both reported as *NetworkError.
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("webhook request failed", "host", hostOf(endpoint), "error", err)
		return nil, &NetworkError{Err: err}
	}
	slog.Debug("webhook responded", "host", hostOf(endpoint), "status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}

func isJSONString(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '"'
}

// statusText returns the reason phrase of resp, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	if text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); text != "" && text != resp.Status {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
