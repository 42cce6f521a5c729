package chat

import (
	"encoding/json"
	"sync"
)

// Conversation is an append-only, ordered transcript. It is safe for
// concurrent use; readers always receive copies.
type Conversation struct {
	mu       sync.RWMutex
	messages []Message
}

func NewConversation() *Conversation {
	return &Conversation{}
}

// Append adds msgs at the end in the given order as a single step, so a
// reader never observes only part of a user+reply pair.
func (c *Conversation) Append(msgs ...Message) {
	if len(msgs) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range msgs {
		c.messages = append(c.messages, copyMessage(m))
	}
}

func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

func (c *Conversation) IsEmpty() bool {
	return c.Len() == 0
}

// Messages returns a copy of the transcript in chronological order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = copyMessage(m)
	}
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return copyMessage(c.messages[len(c.messages)-1]), true
}

func copyMessage(m Message) Message {
	if m.Jobs != nil {
		jobs := make([]Job, len(m.Jobs))
		for i, j := range m.Jobs {
			if j.Raw != nil {
				j.Raw = append(json.RawMessage(nil), j.Raw...)
			}
			jobs[i] = j
		}
		m.Jobs = jobs
	}
	return m
}
