package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/siswa/internal/logtail"
	"github.com/five82/siswa/internal/siswa"
	"github.com/five82/siswa/internal/state"
	"github.com/five82/siswa/internal/viewsync"
)

// Messages

type listStatusMsg struct{ status state.ListStatus }

type detailStatusMsg struct{ status state.DetailStatus }

type navigateMsg struct{ path string }

type formLoadedMsg struct {
	id  string
	rec siswa.Record
	err error
}

type savedMsg struct {
	id  string
	err error
}

type deletedMsg struct{ err error }

type logsMsg struct {
	lines []logtail.Line
	err   error
}

type logTickMsg time.Time

type flashExpiredMsg struct{ seq int }

type errMsg struct{ err error }

// Commands

// waitListStatus blocks on the next list status. A closed channel ends the
// chain.
func waitListStatus(ch <-chan state.ListStatus) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return listStatusMsg{status: status}
	}
}

func waitDetailStatus(ch <-chan state.DetailStatus) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return nil
		}
		return detailStatusMsg{status: status}
	}
}

func waitNavigation(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-ch
		if !ok {
			return nil
		}
		return navigateMsg{path: path}
	}
}

func loadDetailCmd(ctx context.Context, d *viewsync.Detail, id string) tea.Cmd {
	return func() tea.Msg {
		if err := d.Load(ctx, id); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func retryDetailCmd(ctx context.Context, d *viewsync.Detail) tea.Cmd {
	return func() tea.Msg {
		if err := d.Retry(ctx); err != nil {
			return errMsg{err: err}
		}
		return nil
	}
}

func deleteCmd(ctx context.Context, d *viewsync.Detail) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{err: d.DeleteCurrent(ctx)}
	}
}

func saveCmd(ctx context.Context, e *viewsync.Editor, rec siswa.Record) tea.Cmd {
	return func() tea.Msg {
		id, err := e.Save(ctx, rec)
		return savedMsg{id: id, err: err}
	}
}

func loadFormCmd(ctx context.Context, e *viewsync.Editor, id string) tea.Cmd {
	return func() tea.Msg {
		rec, err := e.Load(ctx, id)
		return formLoadedMsg{id: id, rec: rec, err: err}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logsMsg{lines: lines, err: err}
	}
}

func logTickCmd() tea.Cmd {
	return tea.Tick(LogRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

func flashExpireCmd(seq int) tea.Cmd {
	return tea.Tick(FlashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
