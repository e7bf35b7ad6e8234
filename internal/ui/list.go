package ui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/siswa/internal/prefs"
	"github.com/five82/siswa/internal/route"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/state"
)

// records returns the list payload in display order, or nil when the list
// is not in Success.
func (m Model) records() []siswa.Record {
	success, ok := m.listStatus.(state.ListSuccess)
	if !ok {
		return nil
	}
	return sortRecords(success.Records, m.order)
}

func sortRecords(records []siswa.Record, order string) []siswa.Record {
	out := siswa.Clone(records)
	if order == prefs.OrderName {
		slices.SortStableFunc(out, func(a, b siswa.Record) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
	return out
}

func (m *Model) clampSelection() {
	n := len(m.records())
	switch {
	case n == 0:
		m.selectedRow = 0
	case m.selectedRow >= n:
		m.selectedRow = n - 1
	}
}

// handleListKey processes keyboard input for the record list.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	records := m.records()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Retry):
		m.list.Retry()
		return m, nil
	case key.Matches(msg, m.keys.New):
		return m.navigate(string(route.Entry))
	case key.Matches(msg, m.keys.Order):
		m.order = prefs.NextOrder(m.order)
		m.selectedRow = 0
		m.savePrefs()
		return m, nil
	}

	if len(records) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(records)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = len(records) - 1
	case key.Matches(msg, m.keys.Open):
		return m.navigate(route.DetailPath(records[m.selectedRow].ID))
	}
	return m, nil
}

// renderList draws the list screen for every status variant.
func (m Model) renderList() string {
	styles := m.theme.Styles()
	return state.MatchList(m.listStatus,
		func() string {
			return m.spinner.View() + " " + styles.MutedText.Render("Memuat data siswa…")
		},
		func(records []siswa.Record) string {
			if len(records) == 0 {
				return styles.MutedText.Render("Tidak ada data siswa") + "\n\n" +
					styles.FaintText.Render("Tekan n untuk menambah siswa.")
			}
			return m.renderTable(sortRecords(records, m.order))
		},
		func(err error) string {
			return styles.DangerText.Render("Gagal memuat data siswa") + "\n" +
				styles.MutedText.Render(rootCause(err)) + "\n\n" +
				styles.FaintText.Render("Tekan r untuk mencoba lagi.")
		},
	)
}

func (m Model) renderTable(records []siswa.Record) string {
	styles := m.theme.Styles()
	cols := tableColumns(m.width)

	var b strings.Builder
	b.WriteString(styles.AccentText.Render(cols.row("No", "Nama", "Alamat", "Telpon")))
	b.WriteString("\n")

	// Keep the selection on screen.
	visible := max(m.contentHeight()-1, 1)
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	end := min(start+visible, len(records))

	for i := start; i < end; i++ {
		rec := records[i]
		line := cols.row(fmt.Sprintf("%d", i+1), rec.Name, rec.Address, rec.Phone)
		if i == m.selectedRow {
			line = styles.Selected.Render(line)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

type columns struct {
	no, name, address, phone int
}

// tableColumns splits width between the columns; narrow terminals drop the
// address.
func tableColumns(width int) columns {
	c := columns{no: 4, phone: 16}
	rest := max(width-c.no-c.phone-3, 10)
	if width < LayoutCompactWidth {
		c.name = rest
		return c
	}
	c.name = rest * 2 / 5
	c.address = rest - c.name
	return c
}

func (c columns) row(no, name, address, phone string) string {
	parts := []string{padRight(no, c.no), padRight(name, c.name)}
	if c.address > 0 {
		parts = append(parts, padRight(address, c.address))
	}
	parts = append(parts, padRight(phone, c.phone))
	return strings.Join(parts, " ")
}
