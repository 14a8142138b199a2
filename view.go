package main

import (
	"fmt"
	"strings"

	"shadowmite/internal/ui"
	"shadowmite/internal/wizard"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current screen
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	switch m.machine.Screen() {
	case wizard.ScreenWelcome:
		return m.renderWelcome()
	case wizard.ScreenFinish:
		return m.renderFinish()
	}

	var body string
	switch m.machine.Screen() {
	case wizard.ScreenNetwork:
		body = m.renderNetwork()
	case wizard.ScreenLocale:
		body = m.renderLocale()
	case wizard.ScreenApps:
		body = m.renderApps()
	case wizard.ScreenSummary:
		body = m.renderSummary()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString("\n" + ui.RenderNotification(m.noticeKind, m.notice) + "\n")
	}
	b.WriteString(m.renderHelpBar())

	return ui.AppStyle.Render(b.String())
}

func (m Model) renderHeader() string {
	screen := m.machine.Screen()
	names := make([]string, len(wizard.Screens))
	current := 0
	for i, s := range wizard.Screens {
		names[i] = s.String()
		if s == screen {
			current = i
		}
	}
	return ui.TitleStyle.Render(screen.Title()) + "\n" + ui.RenderSteps(names, current) + "\n"
}

// screenKeys are the bindings shown in the help bar for the current screen
func (m Model) screenKeys() []key.Binding {
	k := m.keys
	switch m.machine.Screen() {
	case wizard.ScreenWelcome:
		return []key.Binding{withHelp(k.Enter, "continue"), k.Quit}
	case wizard.ScreenNetwork:
		if m.static.open {
			return []key.Binding{k.Tab, withHelp(k.Enter, "save"), withHelp(k.Escape, "cancel")}
		}
		if m.netField == fieldPassword {
			return []key.Binding{k.Tab, withHelp(k.Enter, "done"), withHelp(k.Escape, "back to list")}
		}
		return []key.Binding{k.Up, k.Down, k.Enter, k.Tab, k.Advanced, k.Skip, k.Help, k.Quit}
	case wizard.ScreenLocale:
		if m.filtering {
			return []key.Binding{withHelp(k.Enter, "keep filter"), withHelp(k.Escape, "clear filter")}
		}
		return []key.Binding{k.Up, k.Down, k.Enter, k.Tab, k.Filter, k.Escape, k.Next, k.Help, k.Quit}
	case wizard.ScreenApps:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Create, k.Reload, k.Skip, k.Help, k.Quit}
	case wizard.ScreenSummary:
		return []key.Binding{k.Edit, k.Install, k.Up, k.Down, k.Escape, k.Help, k.Quit}
	case wizard.ScreenFinish:
		return []key.Binding{withHelp(k.Enter, "exit"), k.Reboot}
	}
	return nil
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}

func (m Model) renderHelpBar() string {
	if m.help.ShowAll {
		return ui.HelpBarStyle.Render(m.help.FullHelpView(m.keys.FullHelp()))
	}
	return ui.HelpBarStyle.Render(m.help.ShortHelpView(m.screenKeys()))
}

// centered wraps content in the bordered box used by the first and last
// screens.
func (m Model) centered(content string) string {
	box := lipgloss.NewStyle().
		Width(72).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.Primary).
		Render(content)

	return lipgloss.Place(
		m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

func (m Model) renderWelcome() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render(wizard.ScreenWelcome.Title()))
	b.WriteString("\n")
	b.WriteString("This wizard prepares the machine for first use.\n\n")
	b.WriteString("You will:\n")
	b.WriteString("  • Pick a network interface and Wi-Fi network\n")
	b.WriteString("  • Choose a language and timezone\n")
	b.WriteString("  • Optionally install an application from the catalog\n")
	b.WriteString("\n")
	b.WriteString(ui.VersionStyle.Render("shadowmite " + version))
	b.WriteString("\n\n")
	b.WriteString(m.renderHelpBar())

	return m.centered(b.String())
}

func (m Model) renderNetwork() string {
	status := m.machine.Status()
	if m.machine.Scanning() {
		status = m.spinner.View() + " " + status
	}
	status = ui.StatusStyle.Render(status)

	lists := lipgloss.JoinHorizontal(lipgloss.Top, m.ifaces.View(), " ", m.wifi.View())

	label := "Password"
	if m.netField == fieldPassword {
		label = ui.CursorStyle.Render("> ") + label
	} else {
		label = "  " + label
	}
	password := ui.LabelStyle.Render(label) + " " + m.password.View()
	if !m.machine.WifiEnabled() {
		password = ui.MutedStyle.Render("  Password  (select a Wi-Fi network first)")
	}

	var b strings.Builder
	b.WriteString(status + "\n\n")
	b.WriteString(lists + "\n\n")
	b.WriteString(password + "\n")

	if cfg := m.machine.Session().StaticIP; cfg != nil {
		b.WriteString("\n" + ui.RenderField("Address:", cfg.String()) + "\n")
	}

	if m.static.open {
		return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.renderStaticDialog())
	}
	return b.String()
}

func (m Model) renderStaticDialog() string {
	d := m.static
	var b strings.Builder

	b.WriteString(ui.PanelTitleStyle.Render("Advanced: address settings"))
	b.WriteString("\n\n")

	modes := []string{wizard.AddressDHCP.String(), wizard.AddressStatic.String()}
	label := "  Mode "
	if d.focus == 0 {
		label = ui.CursorStyle.Render("> ") + "Mode "
	}
	b.WriteString(ui.LabelStyle.Render(label) + ui.RenderButtons(modes, int(d.mode), nil))
	b.WriteString("\n\n")

	labels := []string{"IP", "Gateway", "DNS"}
	for i, in := range d.inputs {
		if d.mode != wizard.AddressStatic {
			b.WriteString(ui.MutedStyle.Render(fmt.Sprintf("%-8s via DHCP", labels[i])) + "\n")
			continue
		}
		b.WriteString(ui.LabelStyle.Render(fmt.Sprintf("%-8s", labels[i])) + " " + in.View() + "\n")
	}

	return ui.DialogStyle.Render(b.String())
}

func (m Model) renderLocale() string {
	var b strings.Builder
	b.WriteString(ui.StatusStyle.Render("Choose your language and timezone.") + "\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.locales.View(), " ", m.timezones.View()))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View() + "\n")
	}

	s := m.machine.Session()
	b.WriteString(ui.RenderField("Language:", orNone(s.Locale)) + "  " + ui.RenderField("Timezone:", orNone(s.Timezone)) + "\n")
	return b.String()
}

func (m Model) renderApps() string {
	return m.apps.View() + "\n"
}

func (m Model) renderSummary() string {
	s := m.machine.Session()

	var details strings.Builder
	details.WriteString(ui.PanelTitleStyle.Render("Your choices") + "\n")
	for _, row := range s.Details() {
		details.WriteString(ui.RenderField(row[0]+":", row[1]) + "\n")
	}
	if s.SelectedApp != nil && s.SelectedApp.Description != "" {
		details.WriteString("\n" + ui.MutedStyle.Render(s.SelectedApp.Description) + "\n")
	}

	left := ui.PanelStyle.Width(28).Render(strings.TrimRight(details.String(), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", m.preview.View())

	if m.change.Changed() {
		msg := fmt.Sprintf("Record changed on disk (+%d/-%d lines), revisit Apps to refresh", m.change.Added, m.change.Removed)
		if m.change.Missing {
			msg = "Record was removed from disk, revisit Apps to refresh"
		}
		body += "\n" + ui.RenderNotification(ui.NotifyWarning, msg)
	}
	return body
}

func (m Model) renderFinish() string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render(wizard.ScreenFinish.Title()))
	b.WriteString("\n")
	b.WriteString(ui.SubtitleStyle.Render("Your settings:"))
	b.WriteString("\n")
	for _, row := range m.machine.Session().Details() {
		b.WriteString(ui.RenderField(row[0]+":", row[1]) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(ui.MutedStyle.Render(m.Summary()))
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(ui.RenderNotification(m.noticeKind, m.notice) + "\n\n")
	}
	if m.confirmReboot {
		b.WriteString(ui.RenderNotification(ui.NotifyWarning, "Reboot now? (y/n)"))
		return m.centered(b.String())
	}
	b.WriteString(m.renderHelpBar())
	return m.centered(b.String())
}

func orNone(v string) string {
	if v == "" {
		return "None"
	}
	return v
}
