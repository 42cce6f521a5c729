// Package theme defines the color palettes and backgrounds a user can pick,
// and the Appearance value handed to renderers.
package theme

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultTheme      = "cyan"
	DefaultBackground = "plain"
)

// Palette is one accent color scheme.
type Palette struct {
	Key       string
	Name      string
	Accent    lipgloss.Color
	AccentDim lipgloss.Color
	Button    lipgloss.Color
	UserBg    lipgloss.Color
	SkillBg   lipgloss.Color
	SkillText lipgloss.Color
}

// Background is the fill drawn behind the transcript.
type Background struct {
	Key     string
	Name    string
	Color   lipgloss.Color
	Pattern string
}

const (
	slate100 = lipgloss.Color("#f1f5f9")
	slate300 = lipgloss.Color("#cbd5e1")
	slate400 = lipgloss.Color("#94a3b8")
	slate700 = lipgloss.Color("#334155")
	slate800 = lipgloss.Color("#1e293b")
	slate900 = lipgloss.Color("#0f172a")
	red400   = lipgloss.Color("#f87171")
	green400 = lipgloss.Color("#4ade80")
)

var palettes = map[string]Palette{
	"cyan": {
		Key: "cyan", Name: "Cyan",
		Accent: "#22d3ee", AccentDim: "#67e8f9", Button: "#0891b2",
		UserBg: "#164e63", SkillBg: "#083344", SkillText: "#a5f3fc",
	},
	"violet": {
		Key: "violet", Name: "Violet",
		Accent: "#a78bfa", AccentDim: "#c4b5fd", Button: "#7c3aed",
		UserBg: "#4c1d95", SkillBg: "#2e1065", SkillText: "#ddd6fe",
	},
	"emerald": {
		Key: "emerald", Name: "Emerald",
		Accent: "#34d399", AccentDim: "#6ee7b7", Button: "#059669",
		UserBg: "#064e3b", SkillBg: "#022c22", SkillText: "#a7f3d0",
	},
	"rose": {
		Key: "rose", Name: "Rose",
		Accent: "#fb7185", AccentDim: "#fda4af", Button: "#e11d48",
		UserBg: "#881337", SkillBg: "#4c0519", SkillText: "#fecdd3",
	},
}

var backgrounds = map[string]Background{
	"plain":  {Key: "plain", Name: "Plain Dark", Color: slate900, Pattern: " "},
	"dots":   {Key: "dots", Name: "Dot Matrix", Color: slate900, Pattern: "·   "},
	"grid":   {Key: "grid", Name: "Grid Lines", Color: slate900, Pattern: "┼───"},
	"cosmic": {Key: "cosmic", Name: "Cosmic Void", Color: lipgloss.Color("#1e1b4b"), Pattern: "  ✦      ·    "},
}

// ThemeKeys lists the palette keys in sorted order.
func ThemeKeys() []string { return sortedKeys(palettes) }

// BackgroundKeys lists the background keys in sorted order.
func BackgroundKeys() []string { return sortedKeys(backgrounds) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func IsTheme(key string) bool {
	_, ok := palettes[key]
	return ok
}

func IsBackground(key string) bool {
	_, ok := backgrounds[key]
	return ok
}

// Appearance is the resolved theme and background. It is a plain value:
// renderers receive it explicitly and a change produces a new Appearance.
type Appearance struct {
	Palette    Palette
	Background Background
}

// Resolve maps keys to an Appearance. Unknown keys fall back to the defaults.
func Resolve(themeKey, bgKey string) Appearance {
	p, ok := palettes[themeKey]
	if !ok {
		p = palettes[DefaultTheme]
	}
	b, ok := backgrounds[bgKey]
	if !ok {
		b = backgrounds[DefaultBackground]
	}
	return Appearance{Palette: p, Background: b}
}

// Styles are the lipgloss styles derived from an Appearance.
type Styles struct {
	Title      lipgloss.Style
	Subtle     lipgloss.Style
	UserMsg    lipgloss.Style
	AIMsg      lipgloss.Style
	AILabel    lipgloss.Style
	JobCard    lipgloss.Style
	JobTitle   lipgloss.Style
	JobLink    lipgloss.Style
	Skill      lipgloss.Style
	Dialog     lipgloss.Style
	FieldError lipgloss.Style
	Success    lipgloss.Style
	Spinner    lipgloss.Style
	Fill       lipgloss.Style
}

func (a Appearance) Styles() Styles {
	p := a.Palette
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		Subtle:  lipgloss.NewStyle().Foreground(slate400),
		UserMsg: lipgloss.NewStyle().Foreground(slate100).Background(p.UserBg).Padding(0, 1),
		AIMsg:   lipgloss.NewStyle().Foreground(slate300).Padding(0, 1),
		AILabel: lipgloss.NewStyle().Bold(true).Foreground(p.Accent),
		JobCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(slate700).
			Padding(0, 1),
		JobTitle:   lipgloss.NewStyle().Bold(true).Foreground(slate100),
		JobLink:    lipgloss.NewStyle().Underline(true).Foreground(p.AccentDim),
		Skill:      lipgloss.NewStyle().Foreground(p.SkillText).Background(p.SkillBg).Padding(0, 1),
		Dialog:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Background(slate800).Padding(1, 2),
		FieldError: lipgloss.NewStyle().Foreground(red400),
		Success:    lipgloss.NewStyle().Foreground(green400),
		Spinner:    lipgloss.NewStyle().Foreground(p.Accent),
		Fill:       lipgloss.NewStyle().Foreground(slate700),
	}
}

// FillLine renders one row of the background pattern at the given width.
func (a Appearance) FillLine(width, row int) string {
	pat := []rune(a.Background.Pattern)
	if width <= 0 || len(pat) == 0 {
		return ""
	}
	out := make([]rune, width)
	for i := range out {
		out[i] = pat[(i+row*2)%len(pat)]
	}
	return string(out)
}
