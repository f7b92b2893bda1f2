package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pulseesg/pulse/internal/tui/styles"
)

// Header is the top bar: title, view tabs and the signed-in user.
type Header struct {
	tabs   []string
	active int
	user   string
	width  int
}

// NewHeader creates a new Header component.
func NewHeader(tabs ...string) *Header {
	return &Header{tabs: tabs}
}

// SetActive selects the highlighted tab.
func (h *Header) SetActive(i int) {
	h.active = i
}

// Active returns the highlighted tab.
func (h *Header) Active() int {
	return h.active
}

// SetUser sets the email shown on the right.
func (h *Header) SetUser(user string) {
	h.user = user
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	title := styles.TitleStyle.Render("PulseESG")

	var tabs []string
	for i, name := range h.tabs {
		label := string(rune('1'+i)) + " " + name
		if i == h.active {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	left := title + " " + strings.Join(tabs, "")

	right := ""
	if h.user != "" {
		right = styles.HeaderLabelStyle.Render("Signed in: ") + styles.HeaderValueStyle.Render(h.user)
	}

	if h.width > 0 {
		gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
		if gap > 0 {
			return left + strings.Repeat(" ", gap) + right
		}
	}
	if right == "" {
		return left
	}
	return left + "  " + right
}
