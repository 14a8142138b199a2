// Package actions runs the wizard's external side effects: opening catalog
// records in an editor, installing packages and rebooting.
package actions

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
)

// ErrNoTerminal is returned when no terminal emulator could be found
var ErrNoTerminal = errors.New("no terminal emulator found")

// Terminal is a terminal emulator able to run a command in a new window
type Terminal struct {
	Name    string
	Command string
	execArg []string // Arguments placed before the command to run
}

// Args returns the emulator argv that runs argv in a new window
func (t Terminal) Args(argv ...string) []string {
	out := append([]string{t.Command}, t.execArg...)
	return append(out, argv...)
}

// IsInstalled checks if the emulator is available on the system
func (t Terminal) IsInstalled() bool {
	return isCommandAvailable(t.Command)
}

// terminalsByName maps emulator names to their launch conventions
var terminalsByName = map[string]Terminal{
	"x-terminal-emulator": {Name: "Default terminal", Command: "x-terminal-emulator", execArg: []string{"-e"}},
	"gnome-terminal":      {Name: "GNOME Terminal", Command: "gnome-terminal", execArg: []string{"--"}},
	"konsole":             {Name: "Konsole", Command: "konsole", execArg: []string{"-e"}},
	"xterm":               {Name: "XTerm", Command: "xterm", execArg: []string{"-e"}},
	"kitty":               {Name: "kitty", Command: "kitty"},
	"alacritty":           {Name: "Alacritty", Command: "alacritty", execArg: []string{"-e"}},
}

// DefaultTerminalPriority is the auto-detection order when none is configured
var DefaultTerminalPriority = []string{"x-terminal-emulator", "gnome-terminal", "konsole", "xterm"}

// lookPath is swapped by tests
var lookPath = exec.LookPath

// DetectTerminal finds a terminal emulator. name is "auto" or a specific
// emulator; unknown names are run with "-e".
func DetectTerminal(name string, priority []string) (Terminal, error) {
	if name != "" && name != "auto" {
		term, ok := terminalsByName[name]
		if !ok {
			term = Terminal{Name: name, Command: name, execArg: []string{"-e"}}
		}
		if term.IsInstalled() {
			return term, nil
		}
		return Terminal{}, fmt.Errorf("terminal %s is not installed", name)
	}

	if len(priority) == 0 {
		priority = DefaultTerminalPriority
	}
	for _, n := range priority {
		if term, ok := terminalsByName[n]; ok && term.IsInstalled() {
			return term, nil
		}
	}

	// Fallback: try any known emulator
	names := make([]string, 0, len(terminalsByName))
	for n := range terminalsByName {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		if term := terminalsByName[n]; term.IsInstalled() {
			return term, nil
		}
	}

	return Terminal{}, ErrNoTerminal
}

// isCommandAvailable checks if a command exists in PATH
func isCommandAvailable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
