package chat

import "fmt"

// Fixed assistant texts.
const (
	OnboardingGreeting = "Welcome! To get started, please add your n8n webhook URL in settings. Type /settings, or run `jobseek webhook set <url>`."
	ReadyGreeting      = "Hello! I'm your AI job seeking assistant. Tell me what kind of job you're looking for today."
	UnconfiguredNotice = "I can't connect to your agent. Please set your n8n webhook URL in settings first. Type /settings to open them."
	ClearedNotice      = "Your webhook URL has been cleared. Please set a new one in settings to continue."
	SavedConfirmation  = "Great! Your webhook URL is saved. How can I help you find a job?"
)

// ErrorReply formats the assistant message shown when a query fails.
func ErrorReply(err error) string {
	msg := "Unknown error"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf("Sorry, I encountered an error: %s. Please check your webhook URL and workflow in settings.", msg)
}
