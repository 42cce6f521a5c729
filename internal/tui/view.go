package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/jobseek/internal/chat"
	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/settings"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showSettings {
		return m.renderSettings()
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("jobseek"))
	b.WriteString(m.styles.Subtle.Render("  " + m.sess.Profile().Snapshot().DesiredRole))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	if m.sess.Loading() {
		b.WriteString(m.spinner.View() + m.styles.Subtle.Render(" Searching..."))
		b.WriteString("\n")
	}
	if m.panel != "" {
		b.WriteString(m.panel)
		b.WriteString("\n")
	}
	b.WriteString(m.textarea.View())
	return b.String()
}

// renderMessages renders the transcript, padded with the background pattern
// when it does not fill the viewport.
func (m Model) renderMessages() string {
	width := max(m.viewport.Width-2, 20)

	var blocks []string
	for _, msg := range m.sess.Conversation().Messages() {
		blocks = append(blocks, m.renderMessage(msg, width))
	}
	content := strings.Join(blocks, "\n\n")

	lines := strings.Count(content, "\n") + 1
	for row := lines; row < m.viewport.Height; row++ {
		content = m.styles.Fill.Render(m.appearance.FillLine(m.viewport.Width, row)) + "\n" + content
	}
	return content
}

func (m Model) renderMessage(msg chat.Message, width int) string {
	if msg.Role == chat.RoleUser {
		body := m.styles.UserMsg.Width(width * 3 / 4).Render(msg.Content)
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, body)
	}

	parts := []string{
		m.styles.AILabel.Render("◆ Agent"),
		m.styles.AIMsg.Width(width).Render(msg.Content),
	}
	for _, job := range msg.Jobs {
		parts = append(parts, m.renderJob(job, width))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderJob(job chat.Job, width int) string {
	title := job.Title
	if title == "" {
		title = "Untitled position"
	}
	lines := []string{m.styles.JobTitle.Render(title)}

	var where []string
	for _, s := range []string{job.Company, job.Location} {
		if s != "" {
			where = append(where, s)
		}
	}
	if len(where) > 0 {
		lines = append(lines, m.styles.Subtle.Render(strings.Join(where, " · ")))
	}
	if job.Description != "" {
		lines = append(lines, job.Description)
	}
	if job.URL != "" {
		lines = append(lines, m.styles.JobLink.Render(hyperlink(job.URL, "View job ↗")))
	}
	return m.styles.JobCard.Width(max(width-4, 10)).Render(strings.Join(lines, "\n"))
}

// hyperlink wraps text in an OSC 8 terminal hyperlink.
func hyperlink(url, text string) string {
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, text)
}

func (m Model) renderProfile(p profile.Profile) string {
	lines := []string{
		m.styles.Title.Render(p.FullName),
		m.styles.Subtle.Render(p.DesiredRole),
		p.ProfessionalSummary,
		m.renderSkills(p.Skills),
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSkills(skills []string) string {
	if len(skills) == 0 {
		return m.styles.Subtle.Render("No skills yet")
	}
	tags := make([]string, len(skills))
	for i, s := range skills {
		tags[i] = m.styles.Skill.Render(s)
	}
	return strings.Join(tags, " ")
}

func (m Model) renderSettings() string {
	st := m.dialog.State()

	lines := []string{
		m.styles.Title.Render("Agent Connection"),
		m.styles.Subtle.Render("Configure your n8n webhook URL to connect to your agent."),
		"",
		m.urlInput.View(),
	}
	if st.FieldError != "" {
		lines = append(lines, m.styles.FieldError.Render(st.FieldError))
	}

	switch {
	case m.testing:
		lines = append(lines, m.spinner.View()+" Testing connection...")
	case st.Test == settings.TestSuccess:
		lines = append(lines, m.styles.Success.Render("✓ Connection successful!"))
	case st.Test == settings.TestError:
		lines = append(lines, m.styles.FieldError.Render("✗ "+st.TestError))
	}

	lines = append(lines, "",
		m.styles.Subtle.Render("enter/esc save & close · ctrl+t test · ctrl+r clear URL"))

	box := m.styles.Dialog.Width(max(m.width-10, 40)).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
