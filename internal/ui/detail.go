package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/siswa/internal/route"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/state"
)

// handleDetailKey processes keyboard input for the detail screen.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		return m.back()
	case key.Matches(msg, m.keys.Retry):
		return m, retryDetailCmd(m.ctx, m.detail)
	case key.Matches(msg, m.keys.Edit):
		if _, ok := m.detail.Current(); !ok {
			return m.setFlash("Tidak ada data untuk diubah", true)
		}
		return m.navigate(route.EditPath(m.recordID))
	case key.Matches(msg, m.keys.Delete):
		// Only a loaded record can be deleted; the modal is never offered
		// otherwise.
		if _, ok := m.detail.Current(); !ok {
			return m.setFlash("Tidak ada data untuk dihapus", true)
		}
		m.modal = newConfirmModal(deleteCmd(m.ctx, m.detail))
		return m, nil
	}
	return m, nil
}

// renderDetail draws the detail screen for every status variant.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	return state.MatchDetail(m.detailStatus,
		func() string {
			return m.spinner.View() + " " + styles.MutedText.Render("Memuat data siswa…")
		},
		func(rec siswa.Record, found bool) string {
			if !found {
				return styles.WarningText.Render("Data Siswa Tidak Ditemukan")
			}
			return m.renderRecord(rec)
		},
		func(err error) string {
			return styles.DangerText.Render("Gagal memuat data siswa") + "\n" +
				styles.MutedText.Render(rootCause(err)) + "\n\n" +
				styles.FaintText.Render("Tekan r untuk mencoba lagi.")
		},
	)
}

func (m Model) renderRecord(rec siswa.Record) string {
	styles := m.theme.Styles()
	width := max(min(m.width-4, 72), 20)
	valueWidth := max(width-14, 8)

	rows := []struct{ label, value string }{
		{"Nama", rec.Name},
		{"Alamat", rec.Address},
		{"Telpon", rec.Phone},
		{"ID", rec.ID},
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(styles.MutedText.Render(padRight(row.label, 10)))
		value := styles.Text.Render(truncate(row.value, valueWidth))
		if row.label == "ID" {
			value = styles.FaintText.Render(truncate(row.value, valueWidth))
		}
		b.WriteString(value)
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return styles.Panel.Width(width).Render(b.String())
}
