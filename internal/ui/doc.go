// Package ui provides the terminal interface of the siswa client.
//
// The UI is a Bubble Tea program. It owns no data of its own: every screen
// renders a status value published by a synchronizer from package viewsync
// and every user action is forwarded to one.
//
// # Screens
//
//   - List: all student records, loading spinner, empty text and retry on error
//   - Detail: one record, delete behind a confirmation modal, edit, retry
//   - Entry/Edit: a three-field form backed by bubbles textinput
//   - Logs: tail of the client log file, filterable by level
//   - Help: overlay built from the key map
//
// # Event Flow
//
//  1. Run creates the List, Detail and Editor synchronizers and subscribes to
//     their status cells.
//  2. Commands block on those subscriptions and turn each value into a tea.Msg.
//  3. Key presses call synchronizer operations from commands so the UI
//     goroutine never waits on the gateway.
//  4. OnSaved and OnDeleted push route paths onto a navigation channel which
//     is drained like the status feeds.
//  5. Leaving the detail screen detaches its synchronizer. The list stays
//     attached until the program exits.
package ui
