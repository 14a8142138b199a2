package main

import (
	"context"
	"os"
	"os/exec"
	"time"

	"shadowmite/internal/actions"
	"shadowmite/internal/catalog"
	"shadowmite/internal/scan"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// recordWatchTimeout bounds how long an out-of-band edit is waited for
	recordWatchTimeout = 30 * time.Minute
	// recordCheckInterval is how often Summary re-reads the selected record
	recordCheckInterval = 2 * time.Second
)

// Messages

type adaptersLoadedMsg struct {
	names []string
	err   error
}

type localesLoadedMsg struct {
	locales   []string
	timezones []string
	err       error
}

type scanCompleteMsg struct {
	handle *scan.Handle
	result scan.Result
}

type editorClosedMsg struct {
	path string
	err  error
}

type recordSavedMsg struct {
	result actions.WatchResult
}

type installDoneMsg struct {
	pkg string
	err error
}

// repoLoadedMsg carries the catalog's repository label, empty outside git
type repoLoadedMsg struct {
	label string
}

// recordCheckMsg belongs to the Summary visit numbered gen
type recordCheckMsg struct {
	gen int
}

// Commands

func loadAdapters(ctx context.Context, sys Enumerators) tea.Cmd {
	return func() tea.Msg {
		names, err := sys.Adapters(ctx)
		return adaptersLoadedMsg{names: names, err: err}
	}
}

// loadLocales reads both Locale screen lists. Either may fail on its own.
func loadLocales(ctx context.Context, sys Enumerators) tea.Cmd {
	return func() tea.Msg {
		var msg localesLoadedMsg
		var err error
		if msg.locales, err = sys.Locales(ctx); err != nil {
			msg.err = err
		}
		if msg.timezones, err = sys.Timezones(ctx); err != nil && msg.err == nil {
			msg.err = err
		}
		return msg
	}
}

// lookupRepo labels the repository holding dir. The search does not climb to
// the home directory, which may itself be a dotfiles repository.
func lookupRepo(dir string) tea.Cmd {
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		info, ok := catalog.LookupRepo(dir, home)
		if !ok {
			return repoLoadedMsg{}
		}
		return repoLoadedMsg{label: info.Label()}
	}
}

// awaitScan delivers the result of h to Update
func awaitScan(h *scan.Handle) tea.Cmd {
	return func() tea.Msg {
		return scanCompleteMsg{handle: h, result: <-h.Done()}
	}
}

// watchRecord waits for a record opened in another window to be saved
func watchRecord(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, recordWatchTimeout)
		defer cancel()
		return recordSavedMsg{result: actions.NewRecordWatcher(path).WaitForChange(ctx)}
	}
}

// editInPlace suspends the TUI while the editor runs in this terminal
func editInPlace(cmd *exec.Cmd, path string) tea.Cmd {
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorClosedMsg{path: path, err: err}
	})
}

func installPackage(cmd *exec.Cmd, pkg string) tea.Cmd {
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return installDoneMsg{pkg: pkg, err: err}
	})
}

func checkRecordLater(gen int) tea.Cmd {
	return tea.Tick(recordCheckInterval, func(time.Time) tea.Msg {
		return recordCheckMsg{gen: gen}
	})
}
