package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/siswa/internal/route"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/viewsync"
)

// Form field order.
const (
	fieldName = iota
	fieldAddress
	fieldPhone
	fieldCount
)

var fieldLabels = [fieldCount]string{"Nama", "Alamat", "Telpon"}

var fieldKeys = [fieldCount]string{siswa.FieldName, siswa.FieldAddress, siswa.FieldPhone}

// formState backs the entry and edit screens. An empty id means the form
// creates a new record.
type formState struct {
	id      string
	inputs  [fieldCount]textinput.Model
	focus   int
	loading bool
	saving  bool
	errors  map[string]string
	loadErr error
}

func newForm(theme Theme, id string) formState {
	styles := theme.Styles()
	f := formState{id: id}
	placeholders := [fieldCount]string{"Nama siswa", "Alamat lengkap", "08123456789"}
	limits := [fieldCount]int{80, 160, 20}

	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.TextStyle = styles.Text
		ti.PlaceholderStyle = styles.FaintText
		f.inputs[i] = ti
	}
	f.inputs[fieldName].Focus()
	return f
}

func (f formState) focusCmd() tea.Cmd {
	return textinput.Blink
}

// record builds the record the form currently describes.
func (f formState) record() siswa.Record {
	return siswa.Record{
		ID:      f.id,
		Name:    f.inputs[fieldName].Value(),
		Address: f.inputs[fieldAddress].Value(),
		Phone:   f.inputs[fieldPhone].Value(),
	}
}

func (f *formState) prefill(rec siswa.Record) {
	f.inputs[fieldName].SetValue(rec.Name)
	f.inputs[fieldAddress].SetValue(rec.Address)
	f.inputs[fieldPhone].SetValue(rec.Phone)
	for i := range f.inputs {
		f.inputs[i].CursorEnd()
	}
}

func (f *formState) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

// handleFormKey processes keyboard input on the entry and edit screens.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		return m.back()
	}
	if m.form.loading || m.form.loadErr != nil || m.form.saving {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.setFocus(m.form.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.setFocus(m.form.focus - 1)
	case key.Matches(msg, m.keys.Save):
		m.form.saving = true
		m.form.errors = nil
		return m, saveCmd(m.ctx, m.editor, m.form.record())
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) handleFormLoaded(msg formLoadedMsg) (tea.Model, tea.Cmd) {
	if m.screen != route.Edit || msg.id != m.form.id {
		return m, nil
	}
	m.form.loading = false
	if msg.err != nil {
		m.form.loadErr = msg.err
		return m, nil
	}
	m.form.prefill(msg.rec)
	return m, m.form.focusCmd()
}

// handleSaved reports the save outcome. Navigation after a successful save
// arrives separately through the editor callback.
func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.form.saving = false
	if msg.err == nil {
		return m.setFlash("Data siswa disimpan", false)
	}
	if m.screen != route.Entry && m.screen != route.Edit {
		m.log.Debug("save result after leaving form", "err", msg.err)
		return m, nil
	}

	var invalid *siswa.ValidationError
	if errors.As(msg.err, &invalid) {
		m.form.errors = invalid.Fields
		for i, k := range fieldKeys {
			if invalid.Field(k) != "" {
				return m, m.form.setFocus(i)
			}
		}
		return m, nil
	}

	var mutation *viewsync.MutationError
	if errors.As(msg.err, &mutation) {
		return m.setFlash("Gagal menyimpan: "+rootCause(msg.err), true)
	}
	return m.setFlash(msg.err.Error(), true)
}

// renderForm draws the entry or edit form.
func (m Model) renderForm() string {
	styles := m.theme.Styles()

	if m.form.loading {
		return m.spinner.View() + " " + styles.MutedText.Render("Memuat data siswa…")
	}
	if m.form.loadErr != nil {
		if errors.Is(m.form.loadErr, viewsync.ErrRecordNotFound) {
			return styles.WarningText.Render("Data Siswa Tidak Ditemukan")
		}
		return styles.DangerText.Render("Gagal memuat data siswa") + "\n" +
			styles.MutedText.Render(rootCause(m.form.loadErr))
	}

	width := max(min(m.width-4, 72), 24)
	inputWidth := max(width-16, 8)

	var b strings.Builder
	for i := range m.form.inputs {
		input := m.form.inputs[i]
		input.Width = inputWidth

		label := styles.MutedText.Render(padRight(fieldLabels[i], 10))
		if i == m.form.focus {
			label = styles.AccentText.Render(padRight(fieldLabels[i], 10))
		}
		b.WriteString(label)
		b.WriteString(input.View())
		if msg := m.form.errors[fieldKeys[i]]; msg != "" {
			b.WriteString("\n")
			b.WriteString(strings.Repeat(" ", 10))
			b.WriteString(styles.DangerText.Render(msg))
		}
		if i < fieldCount-1 {
			b.WriteString("\n\n")
		}
	}

	footer := styles.FaintText.Render("ctrl+s simpan · esc batal")
	if m.form.saving {
		footer = m.spinner.View() + " " + styles.MutedText.Render("Menyimpan…")
	}

	panel := styles.FocusPanel.Width(width).Render(b.String())
	return lipgloss.JoinVertical(lipgloss.Left, panel, "", footer)
}
