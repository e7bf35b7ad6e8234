package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/siswa/internal/gateway"
	"github.com/five82/siswa/internal/logging"
	"github.com/five82/siswa/internal/prefs"
	"github.com/five82/siswa/internal/route"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/state"
	"github.com/five82/siswa/internal/viewsync"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Gateway   gateway.Gateway
	Logger    logging.Logger
	LogPath   string
	ThemeName string
	ListOrder string
	PrefsPath string
}

// flash is a transient footer message.
type flash struct {
	text  string
	isErr bool
	seq   int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	log       logging.Logger
	logPath   string
	prefsPath string
	keys      keyMap

	// Synchronizers and their status feeds
	list          *viewsync.List
	detail        *viewsync.Detail
	editor        *viewsync.Editor
	listUpdates   <-chan state.ListStatus
	detailUpdates <-chan state.DetailStatus
	nav           chan string
	stopFeeds     func()

	// UI state
	theme    Theme
	order    string
	width    int
	height   int
	ready    bool
	screen   route.Destination
	recordID string
	showLogs bool
	showHelp bool
	modal    Modal
	spinner  spinner.Model
	flash    flash

	// Data state
	listStatus   state.ListStatus
	detailStatus state.DetailStatus
	selectedRow  int

	form formState
	logs logsState
}

// New creates a new Bubble Tea model. Synchronizers are created here but the
// list subscription starts in Init.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("component", "ui")

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}
	order := opts.ListOrder
	if order == "" {
		order = prefs.Default().ListOrder
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	list := viewsync.NewList(opts.Gateway, log)
	detail := viewsync.NewDetail(opts.Gateway, log)
	editor := viewsync.NewEditor(opts.Gateway, log)

	// Successful mutations navigate through the same path as key presses.
	nav := make(chan string, 4)
	push := func(path string) {
		select {
		case nav <- path:
		default:
			log.Warn("navigation dropped", "path", path)
		}
	}
	detail.OnDeleted(func(string) { push(string(route.Home)) })
	editor.OnSaved(func(id string) { push(route.DetailPath(id)) })

	listUpdates, stopList := list.Subscribe(8)
	detailUpdates, stopDetail := detail.Subscribe(8)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := GetTheme(themeName)
	sp.Style = theme.Styles().AccentText

	return Model{
		ctx:           ctx,
		log:           log,
		logPath:       opts.LogPath,
		prefsPath:     prefsPath,
		keys:          DefaultKeyMap(),
		list:          list,
		detail:        detail,
		editor:        editor,
		listUpdates:   listUpdates,
		detailUpdates: detailUpdates,
		nav:           nav,
		stopFeeds: func() {
			stopList()
			stopDetail()
		},
		theme:        theme,
		order:        order,
		screen:       route.Home,
		spinner:      sp,
		listStatus:   list.Status(),
		detailStatus: detail.Status(),
		logs:         newLogsState(),
	}
}

// Init implements tea.Model. The list subscription lives as long as the
// program and is detached by Close.
func (m Model) Init() tea.Cmd {
	m.list.Attach(m.ctx)
	return tea.Batch(
		m.spinner.Tick,
		waitListStatus(m.listUpdates),
		waitDetailStatus(m.detailUpdates),
		waitNavigation(m.nav),
	)
}

// Close detaches every synchronizer and stops the status feeds.
func (m Model) Close() {
	m.list.Detach()
	m.detail.Detach()
	m.editor.Detach()
	m.stopFeeds()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.logs.resize(m.width, m.contentHeight())
		m.refreshLogViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listStatusMsg:
		m.listStatus = msg.status
		m.clampSelection()
		return m, waitListStatus(m.listUpdates)

	case detailStatusMsg:
		m.detailStatus = msg.status
		return m, waitDetailStatus(m.detailUpdates)

	case navigateMsg:
		next, cmd := m.navigate(msg.path)
		return next, tea.Batch(cmd, waitNavigation(m.nav))

	case formLoadedMsg:
		return m.handleFormLoaded(msg)

	case savedMsg:
		return m.handleSaved(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case logsMsg:
		m.logs.set(msg.lines, msg.err)
		m.refreshLogViewport()
		return m, nil

	case logTickMsg:
		if !m.showLogs {
			return m, nil
		}
		return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd())

	case flashExpiredMsg:
		if msg.seq == m.flash.seq {
			m.flash.text = ""
		}
		return m, nil

	case errMsg:
		return m.setFlash(msg.err.Error(), true)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	// Forms own every printable key.
	if !m.showLogs && (m.screen == route.Entry || m.screen == route.Edit) {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.spinner.Style = m.theme.Styles().AccentText
		m.refreshLogViewport()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			return m, tea.Batch(readLogsCmd(m.logPath), logTickCmd())
		}
		return m, nil
	}

	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch m.screen {
	case route.Home:
		return m.handleListKey(msg)
	case route.Detail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// navigate switches screens. Leaving the detail or a form screen detaches
// its synchronizer so a pending call cannot act on a screen nobody shows.
func (m Model) navigate(path string) (Model, tea.Cmd) {
	dest, id, err := route.Parse(path)
	if err != nil {
		m.log.InternalError("navigation failed", err, "path", path)
		return m, nil
	}

	leaving := dest != m.screen || id != m.recordID
	if m.screen == route.Detail && leaving {
		m.detail.Detach()
	}
	if (m.screen == route.Entry || m.screen == route.Edit) && leaving {
		m.editor.Detach()
	}
	m.screen = dest
	m.recordID = id
	m.modal = nil
	m.showLogs = false

	switch dest {
	case route.Detail:
		m.detail.Attach(m.ctx)
		m.detailStatus = state.DetailLoading{}
		return m, loadDetailCmd(m.ctx, m.detail, id)
	case route.Entry:
		m.editor.Attach(m.ctx)
		m.form = newForm(m.theme, "")
		return m, m.form.focusCmd()
	case route.Edit:
		m.editor.Attach(m.ctx)
		m.form = newForm(m.theme, id)
		m.form.loading = true
		return m, loadFormCmd(m.ctx, m.editor, id)
	}
	return m, nil
}

func (m Model) back() (tea.Model, tea.Cmd) {
	switch m.screen {
	case route.Detail, route.Entry:
		return m.navigate(string(route.Home))
	case route.Edit:
		return m.navigate(route.DetailPath(m.recordID))
	}
	return m, nil
}

func (m Model) setFlash(text string, isErr bool) (Model, tea.Cmd) {
	m.flash = flash{text: text, isErr: isErr, seq: m.flash.seq + 1}
	return m, flashExpireCmd(m.flash.seq)
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, ListOrder: m.order}); err != nil {
		m.log.Warn("save prefs failed", "err", err)
	}
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		return m.setFlash("Data siswa dihapus", false)
	}
	var pre *viewsync.PreconditionError
	if errors.As(msg.err, &pre) {
		return m.setFlash("Tidak ada data untuk dihapus", true)
	}
	return m.setFlash("Gagal menghapus: "+rootCause(msg.err), true)
}

// contentHeight is the space left under the header and command bar and
// above the footer.
func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	content := m.renderContent()
	b.WriteString(lipgloss.NewStyle().Height(m.contentHeight()).MaxHeight(m.contentHeight()).Render(content))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderContent renders the main content area based on current screen.
func (m Model) renderContent() string {
	if m.showLogs {
		return m.renderLogs()
	}
	switch m.screen {
	case route.Home:
		return m.renderList()
	case route.Detail:
		return m.renderDetail()
	case route.Entry, route.Edit:
		return m.renderForm()
	}
	return ""
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	title := m.screen.Title()
	if m.showLogs {
		title = "Log"
	}
	left := styles.Title.Render("siswa") + styles.FaintText.Render(" │ ") + styles.Text.Render(title)
	right := styles.MutedText.Render(m.listSummary())
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) listSummary() string {
	return state.MatchList(m.listStatus,
		func() string { return "memuat…" },
		func(records []siswa.Record) string { return pluralRecords(len(records)) },
		func(error) string { return "offline" },
	)
}

func (m Model) renderCommandBar() string {
	styles := m.theme.Styles()
	var hints []key.Binding
	switch {
	case m.showLogs:
		hints = []key.Binding{m.keys.Up, m.keys.Down, m.keys.CycleLevel, m.keys.Logs}
	case m.screen == route.Home:
		hints = []key.Binding{m.keys.Open, m.keys.New, m.keys.Retry, m.keys.Order, m.keys.Logs}
	case m.screen == route.Detail:
		hints = []key.Binding{m.keys.Edit, m.keys.Delete, m.keys.Retry, m.keys.Back}
	default:
		hints = []key.Binding{m.keys.NextField, m.keys.Save, m.keys.Back}
	}
	hints = append(hints, m.keys.Help)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, styles.Key.Render(h.Help().Key)+" "+styles.MutedText.Render(h.Help().Desc))
	}
	return truncate(strings.Join(parts, "  "), m.width)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.flash.text == "" {
		return styles.Footer.Width(m.width).Render(styles.FaintText.Render("tema " + m.theme.Name))
	}
	text := styles.SuccessText.Render(m.flash.text)
	if m.flash.isErr {
		text = styles.DangerText.Render(m.flash.text)
	}
	return styles.Footer.Width(m.width).Render(text)
}

// Run starts the Bubble Tea program and detaches every synchronizer once it
// exits.
func Run(opts Options) error {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
