package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kalambet/jobseek/internal/profile"
	"github.com/kalambet/jobseek/internal/theme"
)

const helpText = `/settings                 open agent connection settings
/theme <name>             switch color theme
/background <name>        switch background
/profile                  show your profile
/set <field> <value>      set fullName, professionalSummary or desiredRole
/skill add <skill>        add a skill
/skill rm <skill>         remove a skill
/quit                     exit`

// executeCommand runs a slash command typed into the input.
func (m Model) executeCommand(line string) (tea.Model, tea.Cmd) {
	name, rest, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	rest = strings.TrimSpace(rest)
	m.panel = ""

	switch name {
	case "quit", "exit":
		return m, tea.Quit

	case "help":
		m.panel = m.styles.Subtle.Render(helpText)

	case "settings":
		m.openSettings()

	case "theme":
		a, err := m.themes.SetTheme(rest)
		if err != nil {
			m.panel = m.errorPanel(err, "themes: "+strings.Join(theme.ThemeKeys(), ", "))
			break
		}
		m.setAppearance(a)
		m.refresh()
		m.panel = m.styles.Success.Render("Theme set to " + a.Palette.Name)

	case "background", "bg":
		a, err := m.themes.SetBackground(rest)
		if err != nil {
			m.panel = m.errorPanel(err, "backgrounds: "+strings.Join(theme.BackgroundKeys(), ", "))
			break
		}
		m.setAppearance(a)
		m.refresh()
		m.panel = m.styles.Success.Render("Background set to " + a.Background.Name)

	case "profile":
		m.panel = m.renderProfile(m.sess.Profile().Snapshot())

	case "set":
		field, value, ok := strings.Cut(rest, " ")
		if !ok {
			m.panel = m.styles.FieldError.Render("usage: /set <field> <value>")
			break
		}
		if err := m.sess.Profile().UpdateField(field, strings.TrimSpace(value)); err != nil {
			hint := "fields: " + strings.Join(profile.Fields, ", ")
			m.panel = m.errorPanel(err, hint)
			break
		}
		m.panel = m.styles.Success.Render("Updated " + field)

	case "skill":
		m.panel = m.skillCommand(rest)

	default:
		m.panel = m.styles.FieldError.Render(fmt.Sprintf("unknown command /%s, try /help", name))
	}
	return m, nil
}

func (m Model) skillCommand(args string) string {
	op, skill, _ := strings.Cut(args, " ")
	skill = strings.TrimSpace(skill)
	mgr := m.sess.Profile()

	var (
		changed bool
		err     error
	)
	switch op {
	case "add":
		changed, err = mgr.AddSkill(skill)
	case "rm", "remove":
		changed, err = mgr.RemoveSkill(skill)
	default:
		return m.styles.FieldError.Render("usage: /skill add|rm <skill>")
	}
	if err != nil {
		return m.styles.FieldError.Render(err.Error())
	}
	if !changed {
		return m.styles.Subtle.Render("No change to skills")
	}
	return m.renderSkills(mgr.Snapshot().Skills)
}

func (m Model) errorPanel(err error, hint string) string {
	msg := err.Error()
	if errors.Is(err, theme.ErrUnknownKey) || errors.Is(err, profile.ErrUnknownField) {
		msg += " (" + hint + ")"
	}
	return m.styles.FieldError.Render(msg)
}
