package theme

import (
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/kalambet/jobseek/internal/prefs"
	"github.com/kalambet/jobseek/internal/storage"
)

func openTestStore(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	db, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(prefs.NewStore(db)), db
}

func TestResolve(t *testing.T) {
	a := Resolve("rose", "grid")
	if a.Palette.Key != "rose" || a.Background.Key != "grid" {
		t.Errorf("Resolve = %s/%s", a.Palette.Key, a.Background.Key)
	}

	a = Resolve("neon", "")
	if a.Palette.Key != DefaultTheme || a.Background.Key != DefaultBackground {
		t.Errorf("fallback = %s/%s", a.Palette.Key, a.Background.Key)
	}
}

func TestKeys(t *testing.T) {
	want := []string{"cyan", "emerald", "rose", "violet"}
	got := ThemeKeys()
	if len(got) != len(want) {
		t.Fatalf("ThemeKeys = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ThemeKeys[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(BackgroundKeys()) != 4 || !IsBackground("cosmic") || IsBackground("stars") {
		t.Errorf("BackgroundKeys = %v", BackgroundKeys())
	}
}

func TestStore_DefaultsAndPersist(t *testing.T) {
	s, _ := openTestStore(t)

	a := s.Load()
	if a.Palette.Key != "cyan" || a.Background.Key != "plain" {
		t.Errorf("defaults = %s/%s", a.Palette.Key, a.Background.Key)
	}

	if _, err := s.SetTheme("emerald"); err != nil {
		t.Fatal(err)
	}
	a, err := s.SetBackground("dots")
	if err != nil {
		t.Fatal(err)
	}
	if a.Palette.Key != "emerald" || a.Background.Key != "dots" {
		t.Errorf("after set = %s/%s", a.Palette.Key, a.Background.Key)
	}
}

func TestStore_RejectsUnknownKeys(t *testing.T) {
	s, _ := openTestStore(t)

	if _, err := s.SetTheme("neon"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetTheme err = %v", err)
	}
	if _, err := s.SetBackground("stars"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetBackground err = %v", err)
	}
	if a := s.Load(); a.Palette.Key != "cyan" {
		t.Errorf("rejected key was persisted: %s", a.Palette.Key)
	}
}

func TestStore_StaleKeyFallsBack(t *testing.T) {
	s, db := openTestStore(t)
	if err := db.SetPreference(prefs.KeyAppTheme, `"magenta"`); err != nil {
		t.Fatal(err)
	}
	if err := db.SetPreference(prefs.KeyAppBackground, `{broken`); err != nil {
		t.Fatal(err)
	}
	a := s.Load()
	if a.Palette.Key != "cyan" || a.Background.Key != "plain" {
		t.Errorf("Load = %s/%s", a.Palette.Key, a.Background.Key)
	}
}

func TestFillLine(t *testing.T) {
	a := Resolve("cyan", "dots")
	line := a.FillLine(10, 0)
	if utf8.RuneCountInString(line) != 10 {
		t.Errorf("FillLine width = %d", utf8.RuneCountInString(line))
	}
	if a.FillLine(0, 0) != "" {
		t.Error("zero width should be empty")
	}
}

func TestStylesUseAccent(t *testing.T) {
	st := Resolve("violet", "plain").Styles()
	if st.Title.GetForeground() != lipgloss.Color("#a78bfa") {
		t.Errorf("title foreground = %v", st.Title.GetForeground())
	}
}

