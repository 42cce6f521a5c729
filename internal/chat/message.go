// Package chat holds the conversation model: roles, messages, job listings
// attached to AI replies, and the append-only transcript.
package chat

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Job is a single listing returned by the webhook. Decoding never fails on
// the listing's shape: typed fields are filled when they have the right JSON
// type and Raw always holds the entry exactly as received. MarshalJSON
// re-emits Raw so unknown or malformed fields pass through unchanged.
type Job struct {
	Title       string
	Company     string
	Location    string
	URL         string
	Description string

	Raw json.RawMessage
}

type jobFields struct {
	Title       json.RawMessage `json:"title"`
	Company     json.RawMessage `json:"company"`
	Location    json.RawMessage `json:"location"`
	URL         json.RawMessage `json:"url"`
	Description json.RawMessage `json:"description"`
}

func (j *Job) UnmarshalJSON(data []byte) error {
	*j = Job{Raw: append(json.RawMessage(nil), data...)}

	var f jobFields
	if err := json.Unmarshal(data, &f); err != nil {
		// Not an object: keep only the raw form.
		return nil
	}
	j.Title = stringField(f.Title)
	j.Company = stringField(f.Company)
	j.Location = stringField(f.Location)
	j.URL = stringField(f.URL)
	j.Description = stringField(f.Description)
	return nil
}

func (j Job) MarshalJSON() ([]byte, error) {
	if len(j.Raw) > 0 {
		return j.Raw, nil
	}
	out := map[string]string{
		"title":    j.Title,
		"company":  j.Company,
		"location": j.Location,
		"url":      j.URL,
	}
	if j.Description != "" {
		out["description"] = j.Description
	}
	return json.Marshal(out)
}

func stringField(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Message is one entry of the transcript. Messages are never modified after
// they are appended to a Conversation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Jobs      []Job     `json:"jobs,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewMessage builds a message with a fresh ID and the current UTC time.
func NewMessage(role Role, content string, jobs ...Job) Message {
	m := Message{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if len(jobs) > 0 {
		m.Jobs = append([]Job(nil), jobs...)
	}
	return m
}

// HasJobs reports whether the message carries any job listings.
func (m Message) HasJobs() bool {
	return len(m.Jobs) > 0
}
