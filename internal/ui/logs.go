package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/siswa/internal/logtail"
)

var logLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// logsState holds the logs view.
type logsState struct {
	viewport viewport.Model
	lines    []logtail.Line
	minLevel slog.Level
	err      error
	follow   bool
}

func newLogsState() logsState {
	return logsState{
		viewport: viewport.New(80, 20),
		minLevel: slog.LevelDebug,
		follow:   true,
	}
}

func (l *logsState) resize(width, height int) {
	l.viewport.Width = max(width, 1)
	l.viewport.Height = max(height-1, 1)
}

func (l *logsState) set(lines []logtail.Line, err error) {
	l.err = err
	if err == nil {
		l.lines = lines
	}
}

func nextLevel(current slog.Level) slog.Level {
	for i, level := range logLevels {
		if level == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

// handleLogsKey processes keyboard input for the logs view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.CycleLevel):
		m.logs.minLevel = nextLevel(m.logs.minLevel)
		m.refreshLogViewport()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.logs.follow = false
		m.logs.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logs.follow = true
		m.logs.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.logs.viewport, cmd = m.logs.viewport.Update(msg)
	m.logs.follow = m.logs.viewport.AtBottom()
	return m, cmd
}

// refreshLogViewport re-renders the filtered lines into the viewport.
func (m *Model) refreshLogViewport() {
	styles := m.theme.Styles()
	lines := logtail.Filter(m.logs.lines, m.logs.minLevel)

	rendered := make([]string, 0, len(lines))
	for _, line := range lines {
		rendered = append(rendered, styles.LevelStyle(line.Level, line.Known).Render(truncate(line.Text, m.logs.viewport.Width)))
	}
	m.logs.viewport.SetContent(strings.Join(rendered, "\n"))
	if m.logs.follow {
		m.logs.viewport.GotoBottom()
	}
}

// renderLogs draws the logs view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	status := styles.MutedText.Render("level ≥ " + m.logs.minLevel.String())
	if m.logPath == "" {
		return styles.MutedText.Render("Log file tidak dikonfigurasi")
	}
	if m.logs.err != nil {
		status = styles.DangerText.Render(m.logs.err.Error())
	} else if len(m.logs.lines) == 0 {
		return status + "\n" + styles.FaintText.Render("Belum ada log")
	}
	return status + "\n" + m.logs.viewport.View()
}
