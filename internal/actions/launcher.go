package actions

import (
	"errors"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"
)

// Launcher starts external programs. Launches are fire-and-forget: exit
// statuses are logged, never returned.
type Launcher struct {
	editor   string
	terminal *Terminal
	install  []string
	reboot   []string
	logger   *log.Logger

	start func(cmd *exec.Cmd) error
}

// Options configures a Launcher
type Options struct {
	Editor         string    // Editor binary, e.g. nano
	Terminal       *Terminal // Emulator for out-of-band editing, nil to edit in place
	InstallCommand []string  // Prefix the package name is appended to
	RebootCommand  []string
}

// NewLauncher creates a launcher. A nil logger discards diagnostics.
func NewLauncher(opts Options, logger *log.Logger) *Launcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	editor := opts.Editor
	if editor == "" {
		editor = "nano"
	}
	return &Launcher{
		editor:   editor,
		terminal: opts.Terminal,
		install:  opts.InstallCommand,
		reboot:   opts.RebootCommand,
		logger:   logger,
		start:    func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// HasTerminal reports whether records open in a separate terminal window
func (l *Launcher) HasTerminal() bool {
	return l.terminal != nil
}

// EditorCommand returns the command that edits path in the current terminal
func (l *Launcher) EditorCommand(path string) *exec.Cmd {
	return exec.Command(l.editor, path)
}

// Open edits path in a new terminal window and returns without waiting.
func (l *Launcher) Open(path string) error {
	if l.terminal == nil {
		return ErrNoTerminal
	}
	argv := l.terminal.Args(l.editor, path)
	return l.detach(exec.Command(argv[0], argv[1:]...), "path", path)
}

// InstallCommand returns the installer command for pkg. ok is false when pkg
// is empty, in which case nothing should run.
func (l *Launcher) InstallCommand(pkg string) (cmd *exec.Cmd, ok bool) {
	if pkg == "" || len(l.install) == 0 {
		return nil, false
	}
	argv := append(append([]string(nil), l.install...), pkg)
	return exec.Command(argv[0], argv[1:]...), true
}

// Reboot starts the reboot command without waiting for it.
func (l *Launcher) Reboot() error {
	if len(l.reboot) == 0 {
		return errors.New("no reboot command configured")
	}
	return l.detach(exec.Command(l.reboot[0], l.reboot[1:]...))
}

func (l *Launcher) detach(cmd *exec.Cmd, keyvals ...interface{}) error {
	if err := l.start(cmd); err != nil {
		return err
	}
	l.logger.Info("launched", append([]interface{}{"cmd", cmd.String()}, keyvals...)...)

	if cmd.Process != nil {
		go func() {
			if err := cmd.Wait(); err != nil {
				l.logger.Debug("launched command exited", "cmd", cmd.Path, "err", err)
			}
		}()
	}
	return nil
}
