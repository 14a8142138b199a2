package main

import (
	"context"
	"io"
	"os/exec"

	"shadowmite/internal/catalog"
	"shadowmite/internal/ui"
	"shadowmite/internal/ui/components"
	"shadowmite/internal/wizard"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Enumerators lists the host choices offered on the Network and Locale screens
type Enumerators interface {
	Adapters(ctx context.Context) ([]string, error)
	Locales(ctx context.Context) ([]string, error)
	Timezones(ctx context.Context) ([]string, error)
}

// Launcher runs the external programs the wizard hands off to
type Launcher interface {
	HasTerminal() bool
	Open(path string) error
	EditorCommand(path string) *exec.Cmd
	InstallCommand(pkg string) (*exec.Cmd, bool)
	Reboot() error
}

// Options wires the model to its collaborators
type Options struct {
	Machine  *wizard.Machine
	System   Enumerators
	Store    *catalog.Store
	Launcher Launcher
	Logger   *log.Logger
}

// networkField is the focused input on the Network screen
type networkField int

const (
	fieldInterface networkField = iota
	fieldWifi
	fieldPassword
)

// localeField is the focused list on the Locale screen
type localeField int

const (
	fieldLocale localeField = iota
	fieldTimezone
)

// staticDialog is the advanced address settings popup on the Network screen.
// Focus 0 is the DHCP/Static toggle, the rest index inputs.
type staticDialog struct {
	open   bool
	mode   wizard.AddressMode
	inputs []textinput.Model
	focus  int
}

// Model is the main application model
type Model struct {
	ctx      context.Context
	machine  *wizard.Machine
	system   Enumerators
	store    *catalog.Store
	launcher Launcher
	logger   *log.Logger

	keys    ui.KeyMap
	help    help.Model
	spinner spinner.Model

	width  int
	height int

	// Network screen
	ifaces   *components.Picker
	wifi     *components.Picker
	password textinput.Model
	netField networkField
	static   staticDialog

	// Locale screen
	locales     *components.Picker
	timezones   *components.Picker
	localeField localeField
	filtering   bool
	filter      textinput.Model

	// Apps and Summary screens
	apps     *components.CatalogList
	preview  *components.RecordPreview
	change   catalog.Change
	checkGen int

	// Finish screen
	confirmReboot bool

	notice     string
	noticeKind ui.NotifyKind
	quitting   bool
}

// NewModel creates the wizard model on the Welcome screen
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.Secondary)

	password := textinput.New()
	password.Placeholder = "Wi-Fi password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 63
	password.Width = 36

	filter := textinput.New()
	filter.Placeholder = "type to filter"
	filter.Prompt = "/ "
	filter.CharLimit = 64
	filter.Width = 30

	wifi := components.NewPicker("Wi-Fi", nil)
	wifi.Disabled = true
	wifi.Empty = "Select a wireless interface to scan."

	ifaces := components.NewPicker("Interface", nil)
	ifaces.Focused = true
	ifaces.Empty = "Looking for adapters..."

	locales := components.NewPicker("Language", nil)
	locales.Focused = true
	locales.Height = 12
	locales.Empty = "No locales available."

	timezones := components.NewPicker("Timezone", nil)
	timezones.Height = 12
	timezones.Empty = "No timezones available."

	return Model{
		ctx:       ctx,
		machine:   opts.Machine,
		system:    opts.System,
		store:     opts.Store,
		launcher:  opts.Launcher,
		logger:    logger,
		keys:      ui.DefaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		ifaces:    ifaces,
		wifi:      wifi,
		password:  password,
		static:    newStaticDialog(),
		locales:   locales,
		timezones: timezones,
		filter:    filter,
		apps:      components.NewCatalogList(),
		preview:   components.NewRecordPreview(),
	}
}

func newStaticDialog() staticDialog {
	placeholders := []string{"Address (e.g. 192.168.1.10/24)", "Gateway", "DNS"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, p := range placeholders {
		ti := textinput.New()
		ti.Placeholder = p
		ti.CharLimit = 64
		ti.Width = 36
		inputs[i] = ti
	}
	return staticDialog{inputs: inputs}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Finished reports whether the wizard reached the Finish screen
func (m Model) Finished() bool {
	return m.machine.Screen() == wizard.ScreenFinish
}

// Summary returns the one-line run summary
func (m Model) Summary() string {
	return m.machine.Session().Line()
}

func (m *Model) notify(kind ui.NotifyKind, msg string) {
	m.notice = msg
	m.noticeKind = kind
}

func (m *Model) clearNotice() {
	m.notice = ""
}

// typing reports whether keystrokes go to a text input
func (m Model) typing() bool {
	switch m.machine.Screen() {
	case wizard.ScreenNetwork:
		if m.static.open {
			return m.static.focus > 0
		}
		return m.netField == fieldPassword
	case wizard.ScreenLocale:
		return m.filtering
	}
	return false
}

// resize lays the components out for the terminal size
func (m *Model) resize() {
	width := max(40, m.width-8)
	half := max(30, (width-2)/2)
	listHeight := max(6, m.height-14)

	m.ifaces.Width = half
	m.wifi.Width = half
	m.ifaces.Height = min(10, listHeight)
	m.wifi.Height = min(10, listHeight)

	m.locales.Width = half
	m.timezones.Width = half
	m.locales.Height = listHeight
	m.timezones.Height = listHeight

	m.apps.Width = width
	m.apps.Height = listHeight
	m.preview.SetSize(max(30, width-30), listHeight)
}
