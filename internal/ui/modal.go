package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

// confirmModal asks before a destructive action. onYes runs only when the
// user confirms.
type confirmModal struct {
	title   string
	message string
	onYes   tea.Cmd
	yes     bool
}

func newConfirmModal(onYes tea.Cmd) confirmModal {
	return confirmModal{
		title:   "Perhatian",
		message: "Apakah anda yakin ingin menghapus data ini?",
		onYes:   onYes,
	}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		return c, c.onYes, true
	case key.Matches(keyMsg, keys.No):
		return c, nil, true
	case key.Matches(keyMsg, keys.Toggle):
		c.yes = !c.yes
		return c, nil, false
	case key.Matches(keyMsg, keys.Choose):
		if c.yes {
			return c, c.onYes, true
		}
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	button := func(label string, active bool) string {
		style := lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color(theme.Muted))
		if active {
			style = style.
				Background(lipgloss.Color(theme.SelectionBg)).
				Foreground(lipgloss.Color(theme.SelectionText)).
				Bold(true)
		}
		return style.Render(label)
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(c.title))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Width(ModalWidth - 6).Render(c.message))
	b.WriteString("\n\n")
	b.WriteString(button("Ya", c.yes))
	b.WriteString("  ")
	b.WriteString(button("Tidak", !c.yes))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Danger)).
		Padding(1, 2).
		Width(ModalWidth).
		Render(b.String())

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
