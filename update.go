package main

import (
	"errors"
	"fmt"
	"os"

	"shadowmite/internal/catalog"
	"shadowmite/internal/ui"
	"shadowmite/internal/wizard"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case adaptersLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("adapter list failed", "err", msg.err)
			m.notify(ui.NotifyWarning, "Could not list network adapters: "+msg.err.Error())
		}
		m.ifaces.SetItems(msg.names)
		m.ifaces.Empty = "No network adapters found."
		return m, nil

	case localesLoadedMsg:
		if msg.err != nil {
			m.logger.Warn("locale lists failed", "err", msg.err)
			m.notify(ui.NotifyWarning, "Could not list every locale option: "+msg.err.Error())
		}
		m.locales.SetItems(msg.locales)
		m.timezones.SetItems(msg.timezones)
		return m, nil

	case scanCompleteMsg:
		if m.machine.ApplyScan(msg.handle, msg.result) {
			m.syncNetwork()
			if len(m.machine.Networks()) > 0 {
				m.netField = fieldWifi
				m.focusNetwork()
			}
		}
		return m, nil

	case editorClosedMsg:
		if msg.err != nil {
			m.logger.Warn("editor exited", "path", msg.path, "err", msg.err)
			m.notify(ui.NotifyError, "Editor failed: "+msg.err.Error())
		}
		cmd := m.recordEdited(msg.path)
		return m, cmd

	case recordSavedMsg:
		if msg.result.Error != nil {
			m.logger.Debug("stopped watching record", "path", msg.result.Path, "err", msg.result.Error)
			return m, nil
		}
		if msg.result.Modified {
			cmd := m.recordEdited(msg.result.Path)
			return m, cmd
		}
		return m, nil

	case installDoneMsg:
		// The installer's exit status carries no meaning for the wizard
		m.logger.Debug("installer exited", "package", msg.pkg, "err", msg.err)
		m.notify(ui.NotifyInfo, "Installer for "+msg.pkg+" exited")
		return m, nil

	case repoLoadedMsg:
		m.apps.Repo = msg.label
		return m, nil

	case recordCheckMsg:
		if msg.gen != m.checkGen || m.machine.Screen() != wizard.ScreenSummary {
			return m, nil
		}
		m.change = m.machine.RecordChange()
		return m, checkRecordLater(m.checkGen)
	}

	return m, nil
}

// handleKeyPress routes key presses to the current screen
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if !m.typing() && !m.confirmReboot {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch m.machine.Screen() {
	case wizard.ScreenWelcome:
		return m.handleWelcomeKeys(msg)
	case wizard.ScreenNetwork:
		if m.static.open {
			return m.handleStaticKeys(msg)
		}
		return m.handleNetworkKeys(msg)
	case wizard.ScreenLocale:
		return m.handleLocaleKeys(msg)
	case wizard.ScreenApps:
		return m.handleAppsKeys(msg)
	case wizard.ScreenSummary:
		return m.handleSummaryKeys(msg)
	case wizard.ScreenFinish:
		return m.handleFinishKeys(msg)
	}
	return m, nil
}

// navigable is a list that moves a cursor
type navigable interface {
	MoveUp()
	MoveDown()
	PageUp()
	PageDown()
	GoToFirst()
	GoToLast()
}

// navigate applies a movement key to l. It returns false for other keys.
func (m Model) navigate(l navigable, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		l.MoveUp()
	case key.Matches(msg, m.keys.Down):
		l.MoveDown()
	case key.Matches(msg, m.keys.PageUp):
		l.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		l.PageDown()
	case key.Matches(msg, m.keys.Home):
		l.GoToFirst()
	case key.Matches(msg, m.keys.End):
		l.GoToLast()
	default:
		return false
	}
	return true
}

// fire applies a trigger and runs the entry work of the new screen
func (m *Model) fire(t wizard.Trigger) tea.Cmd {
	if !m.machine.Fire(t) {
		if m.machine.Scanning() {
			m.notify(ui.NotifyInfo, "Wait for the Wi-Fi scan to finish.")
		}
		return nil
	}
	m.clearNotice()

	switch m.machine.Screen() {
	case wizard.ScreenNetwork:
		m.syncNetwork()
		return loadAdapters(m.ctx, m.system)
	case wizard.ScreenLocale:
		m.filtering = false
		return loadLocales(m.ctx, m.system)
	case wizard.ScreenApps:
		return m.syncApps()
	case wizard.ScreenFinish:
		m.confirmReboot = false
	}
	return nil
}

// Welcome

func (m Model) handleWelcomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Enter) {
		cmd := m.fire(wizard.TriggerContinue)
		return m, cmd
	}
	return m, nil
}

// Network

// syncNetwork copies the machine's Network screen state into the inputs
func (m *Model) syncNetwork() {
	scanning := m.machine.Scanning()
	enabled := m.machine.WifiEnabled()

	m.ifaces.Disabled = scanning
	m.wifi.SetItems(m.machine.Networks())
	m.wifi.Disabled = !enabled
	switch {
	case enabled:
		m.wifi.Empty = wizard.StatusNoNetworks
	case scanning:
		m.wifi.Empty = wizard.StatusScanning
	default:
		m.wifi.Empty = "Select a wireless interface to scan."
	}

	if !enabled {
		m.wifi.ClearChoice()
		m.password.SetValue("")
		if m.netField != fieldInterface {
			m.netField = fieldInterface
		}
	}
	m.focusNetwork()
}

// focusNetwork applies netField to the Network inputs
func (m *Model) focusNetwork() {
	m.ifaces.Focused = m.netField == fieldInterface
	m.wifi.Focused = m.netField == fieldWifi
	if m.netField == fieldPassword {
		m.password.Focus()
	} else {
		m.password.Blur()
	}
}

// cycleNetwork moves focus by delta over the enabled inputs
func (m *Model) cycleNetwork(delta int) {
	fields := []networkField{fieldInterface}
	if m.machine.WifiEnabled() {
		fields = append(fields, fieldWifi, fieldPassword)
	}
	idx := 0
	for i, f := range fields {
		if f == m.netField {
			idx = i
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	m.netField = fields[idx]
	m.focusNetwork()
}

func (m Model) handleNetworkKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		m.cycleNetwork(1)
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleNetwork(-1)
		return m, nil
	}

	if m.netField == fieldPassword {
		return m.handlePasswordKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Skip):
		cmd := m.fire(wizard.TriggerSkip)
		return m, cmd
	case key.Matches(msg, m.keys.Advanced):
		if m.machine.Scanning() {
			m.notify(ui.NotifyInfo, "Wait for the Wi-Fi scan to finish.")
			return m, nil
		}
		m.openStaticDialog()
		return m, nil
	}

	switch m.netField {
	case fieldInterface:
		if m.navigate(m.ifaces, msg) {
			return m, nil
		}
		if key.Matches(msg, m.keys.Enter) {
			return m.chooseInterface()
		}
	case fieldWifi:
		if m.navigate(m.wifi, msg) {
			return m, nil
		}
		if key.Matches(msg, m.keys.Enter) {
			ssid, ok := m.wifi.Current()
			if ok && m.machine.ChooseWifi(ssid) {
				m.wifi.Choose()
				m.netField = fieldPassword
				m.focusNetwork()
			}
		}
	}
	return m, nil
}

func (m Model) chooseInterface() (tea.Model, tea.Cmd) {
	name, ok := m.ifaces.Current()
	if !ok {
		return m, nil
	}
	if m.machine.Scanning() {
		m.notify(ui.NotifyInfo, "Wait for the Wi-Fi scan to finish.")
		return m, nil
	}

	h, ok := m.machine.ChangeInterface(m.ctx, name)
	if !ok {
		return m, nil
	}
	m.ifaces.Choose()
	m.clearNotice()
	m.syncNetwork()

	if h != nil {
		return m, awaitScan(h)
	}
	return m, nil
}

func (m Model) handlePasswordKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.netField = fieldWifi
		m.focusNetwork()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.machine.SetWifiPassword(m.password.Value())
		m.netField = fieldInterface
		m.focusNetwork()
		return m, nil
	}

	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	m.machine.SetWifiPassword(m.password.Value())
	return m, cmd
}

// Static address dialog

func (m *Model) openStaticDialog() {
	d := &m.static
	d.open = true
	d.focus = 0
	d.mode = wizard.AddressDHCP
	values := []string{"", "", ""}
	if cfg := m.machine.Session().StaticIP; cfg != nil {
		d.mode = cfg.Mode
		values = []string{cfg.Address, cfg.Gateway, cfg.DNS}
	}
	for i := range d.inputs {
		d.inputs[i].SetValue(values[i])
		d.inputs[i].Blur()
	}
}

// fields is the number of focus stops for the dialog's mode
func (d staticDialog) fields() int {
	if d.mode == wizard.AddressStatic {
		return len(d.inputs) + 1
	}
	return 1
}

func (m *Model) focusStatic(focus int) tea.Cmd {
	d := &m.static
	d.focus = focus
	var cmd tea.Cmd
	for i := range d.inputs {
		if i+1 == focus {
			cmd = d.inputs[i].Focus()
		} else {
			d.inputs[i].Blur()
		}
	}
	return cmd
}

func (m Model) handleStaticKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := &m.static
	switch {
	case key.Matches(msg, m.keys.Escape):
		d.open = false
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		cfg := wizard.StaticIP{Mode: d.mode}
		if d.mode == wizard.AddressStatic {
			cfg.Address = d.inputs[0].Value()
			cfg.Gateway = d.inputs[1].Value()
			cfg.DNS = d.inputs[2].Value()
		}
		if m.machine.SetStaticIP(cfg) {
			m.notify(ui.NotifySuccess, "Address settings saved: "+cfg.String())
		}
		d.open = false
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		cmd := m.focusStatic((d.focus + 1) % d.fields())
		return m, cmd
	case key.Matches(msg, m.keys.ShiftTab):
		n := d.fields()
		cmd := m.focusStatic((d.focus - 1 + n) % n)
		return m, cmd
	}

	if d.focus == 0 {
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			if d.mode == wizard.AddressDHCP {
				d.mode = wizard.AddressStatic
			} else {
				d.mode = wizard.AddressDHCP
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	d.inputs[d.focus-1], cmd = d.inputs[d.focus-1].Update(msg)
	return m, cmd
}

// Locale

func (m *Model) focusedLocalePicker() pickerWithFilter {
	if m.localeField == fieldTimezone {
		return m.timezones
	}
	return m.locales
}

// pickerWithFilter is a navigable list that also filters
type pickerWithFilter interface {
	navigable
	SetFilter(query string)
	Filter() string
	Current() (string, bool)
	Choose() (string, bool)
}

func (m *Model) focusLocale(f localeField) {
	m.localeField = f
	m.locales.Focused = f == fieldLocale
	m.timezones.Focused = f == fieldTimezone
}

func (m Model) handleLocaleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		return m.handleFilterKeys(msg)
	}

	picker := m.focusedLocalePicker()
	if m.navigate(picker, msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.localeField == fieldLocale {
			m.focusLocale(fieldTimezone)
		} else {
			m.focusLocale(fieldLocale)
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.SetValue(picker.Filter())
		cmd := m.filter.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Enter):
		value, ok := picker.Current()
		if !ok {
			return m, nil
		}
		if m.localeField == fieldLocale {
			if m.machine.ChooseLocale(value) {
				picker.Choose()
				m.focusLocale(fieldTimezone)
			}
		} else if m.machine.ChooseTimezone(value) {
			picker.Choose()
		}
	case key.Matches(msg, m.keys.Escape):
		cmd := m.fire(wizard.TriggerBack)
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		cmd := m.fire(wizard.TriggerNext)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	picker := m.focusedLocalePicker()
	switch {
	case key.Matches(msg, m.keys.Escape):
		picker.SetFilter("")
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.filter.Blur()
		m.filtering = false
		return m, nil
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
			m.navigate(picker, msg)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	picker.SetFilter(m.filter.Value())
	return m, cmd
}

// Apps

// syncApps shows the catalog loaded on entering the Apps screen. The
// returned command refreshes the repository label.
func (m *Model) syncApps() tea.Cmd {
	m.apps.SetCatalog(m.machine.Catalog())
	if m.machine.CatalogUnavailable() {
		m.notify(ui.NotifyError, "Catalog unavailable: "+m.machine.CatalogErr().Error())
	}
	if m.store == nil {
		return nil
	}
	return lookupRepo(m.store.Dir())
}

func (m Model) handleAppsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.navigate(m.apps, msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Enter):
		app, ok := m.apps.Current()
		if !ok || !m.machine.Select(app.ID) {
			return m, nil
		}
		cmd := m.enterSummary()
		return m, cmd
	case key.Matches(msg, m.keys.Reload):
		m.clearNotice()
		m.machine.Reload()
		cmd := m.syncApps()
		if !m.machine.CatalogUnavailable() {
			m.notify(ui.NotifySuccess, fmt.Sprintf("Catalog reloaded (%d apps)", m.machine.Catalog().Len()))
		}
		return m, cmd
	case key.Matches(msg, m.keys.Create):
		return m.createRecord()
	case key.Matches(msg, m.keys.Skip):
		cmd := m.fire(wizard.TriggerSkip)
		return m, cmd
	}
	return m, nil
}

func (m Model) createRecord() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, nil
	}
	path, err := m.store.Create()
	if err != nil {
		m.logger.Error("create record failed", "err", err)
		m.notify(ui.NotifyError, "Could not create a record: "+err.Error())
		return m, nil
	}
	m.logger.Info("record created", "path", path)

	m.machine.Reload()
	repo := m.syncApps()
	for i, app := range m.apps.Apps {
		if app.RecordPath() == path {
			m.apps.Cursor = i
		}
	}
	m.notify(ui.NotifySuccess, "Created "+path)
	edit := m.openRecord(path)
	return m, tea.Batch(repo, edit)
}

// openRecord edits path in another terminal window when one is available,
// otherwise in this terminal with the TUI suspended.
func (m *Model) openRecord(path string) tea.Cmd {
	if m.launcher == nil {
		return nil
	}
	if m.launcher.HasTerminal() {
		if err := m.launcher.Open(path); err != nil {
			m.logger.Error("open record failed", "path", path, "err", err)
			m.notify(ui.NotifyError, "Could not open editor: "+err.Error())
			return nil
		}
		return watchRecord(m.ctx, path)
	}
	return editInPlace(m.launcher.EditorCommand(path), path)
}

// recordEdited refreshes whatever shows the record at path
func (m *Model) recordEdited(path string) tea.Cmd {
	switch m.machine.Screen() {
	case wizard.ScreenApps:
		m.machine.Reload()
		cmd := m.syncApps()
		if !m.machine.CatalogUnavailable() {
			m.notify(ui.NotifySuccess, "Catalog reloaded after edit")
		}
		return cmd
	case wizard.ScreenSummary:
		app := m.machine.Session().SelectedApp
		if app != nil && app.RecordPath() == path {
			m.change = m.machine.RecordChange()
			if err := m.preview.Load(path); err != nil {
				m.logger.Warn("preview failed", "path", path, "err", err)
			}
		}
	}
	return nil
}

// Summary

func (m *Model) enterSummary() tea.Cmd {
	m.clearNotice()
	m.change = catalog.Change{}
	m.checkGen++
	if app := m.machine.Session().SelectedApp; app != nil {
		if err := m.preview.Load(app.RecordPath()); err != nil {
			m.logger.Warn("preview failed", "path", app.RecordPath(), "err", err)
		}
	}
	return checkRecordLater(m.checkGen)
}

func (m Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.preview.ScrollUp()
	case key.Matches(msg, m.keys.Down):
		m.preview.ScrollDown()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Escape):
		cmd := m.fire(wizard.TriggerBack)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		app := m.machine.Session().SelectedApp
		if app == nil {
			return m, nil
		}
		if _, err := os.Stat(app.RecordPath()); err != nil {
			m.notify(ui.NotifyWarning, "Record is no longer on disk.")
			return m, nil
		}
		cmd := m.openRecord(app.RecordPath())
		return m, cmd
	case key.Matches(msg, m.keys.Install):
		return m.install()
	}
	return m, nil
}

func (m Model) install() (tea.Model, tea.Cmd) {
	pkg := m.machine.Session().SelectedPackage
	if m.launcher == nil {
		return m, nil
	}
	cmd, ok := m.launcher.InstallCommand(pkg)
	if !ok {
		m.notify(ui.NotifyWarning, "This app has no package to install.")
		return m, nil
	}
	m.logger.Info("installing", "package", pkg, "cmd", cmd.String())
	m.notify(ui.NotifyInfo, "Installing "+pkg+"...")
	return m, installPackage(cmd, pkg)
}

// Finish

func (m Model) handleFinishKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmReboot {
		switch msg.String() {
		case "y", "Y":
			m.confirmReboot = false
			if err := m.reboot(); err != nil {
				m.notify(ui.NotifyError, "Reboot failed: "+err.Error())
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirmReboot = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Reboot):
		m.confirmReboot = true
	case key.Matches(msg, m.keys.Enter):
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) reboot() error {
	if m.launcher == nil {
		return errors.New("no launcher configured")
	}
	if err := m.launcher.Reboot(); err != nil {
		m.logger.Error("reboot failed", "err", err)
		return err
	}
	return nil
}
