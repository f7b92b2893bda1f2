package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pulseesg/pulse/internal/report"
	"github.com/pulseesg/pulse/internal/tui/components"
	"github.com/pulseesg/pulse/internal/tui/styles"
)

// profileView shows who is signed in.
type profileView struct {
	sh *shared
}

func newProfileView(sh *shared) *profileView {
	return &profileView{sh: sh}
}

func (v *profileView) Enter() tea.Cmd { return nil }

func (v *profileView) Leave() {}

func (v *profileView) Sync() {}

func (v *profileView) Capturing() bool { return false }

func (v *profileView) Shortcuts() []components.ShortcutDef {
	return []components.ShortcutDef{{Key: "L", Desc: "sign out"}}
}

func (v *profileView) Update(tea.Msg) tea.Cmd { return nil }

func (v *profileView) profile() report.Profile {
	store := v.sh.deps.Session
	return report.BuildProfile(store.Token(), store.Role(), string(styles.Current()), v.sh.deps.Config.API.BaseURL)
}

// email returns the signed-in email for the header.
func (v *profileView) email() string {
	return v.profile().Email
}

func (v *profileView) View() string {
	p := v.profile()
	rows := [][2]string{
		{"Email", p.Email},
		{"Role", p.Role},
		{"Theme", p.Theme},
		{"API", p.BaseURL},
	}
	if !p.ExpiresAt.IsZero() {
		rows = append(rows, [2]string{"Session expires", p.ExpiresAt.Local().Format(time.RFC1123)})
	}

	var b strings.Builder
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "—"
		}
		b.WriteString(styles.FormLabelStyle.Width(18).Render(r[0]))
		b.WriteString(styles.TextStyle.Render(value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.MutedTextStyle.Render("Press t to toggle the theme, L to sign out."))
	return section("Profile", b.String(), v.sh.width)
}
