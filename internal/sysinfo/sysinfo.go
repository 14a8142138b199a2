// Package sysinfo wraps the system commands the wizard reads its choices
// from: network adapters, wireless networks, locales and timezones.
package sysinfo

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// ErrNoCommand is returned when an enumerator has no command configured
var ErrNoCommand = errors.New("no command configured")

// Runner executes a command and returns its standard output
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Commands holds the argv used for each list
type Commands struct {
	Networks  []string
	Locales   []string
	Timezones []string
}

// fallbackAdapters is offered when the system reports no usable interface
var fallbackAdapters = []string{"eth0", "wlan0"}

// sysClassNet is where Linux exposes per-interface attributes
var sysClassNet = "/sys/class/net"

// System reads adapters, networks, locales and timezones from the host
type System struct {
	cmds       Commands
	run        Runner
	interfaces func(ctx context.Context) (psnet.InterfaceStatList, error)
}

// New creates a System using the given commands
func New(cmds Commands) *System {
	return &System{
		cmds:       cmds,
		run:        ExecRunner,
		interfaces: psnet.InterfacesWithContext,
	}
}

// SetRunner replaces the command runner (used by tests)
func (s *System) SetRunner(r Runner) {
	s.run = r
}

// Adapters lists network interface names, loopback excluded. When nothing
// usable is found the fixed eth0/wlan0 pair is returned.
func (s *System) Adapters(ctx context.Context) ([]string, error) {
	list, err := s.interfaces(ctx)
	if err != nil {
		return slices.Clone(fallbackAdapters), fmt.Errorf("list interfaces: %w", err)
	}

	var names []string
	for _, iface := range list {
		if iface.Name == "" || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		names = append(names, iface.Name)
	}
	if len(names) == 0 {
		return slices.Clone(fallbackAdapters), nil
	}
	return names, nil
}

// Networks lists visible wireless SSIDs in discovery order. Duplicates are kept.
func (s *System) Networks(ctx context.Context) ([]string, error) {
	return s.lines(ctx, s.cmds.Networks)
}

// Locales lists installed locales
func (s *System) Locales(ctx context.Context) ([]string, error) {
	return s.lines(ctx, s.cmds.Locales)
}

// Timezones lists known timezones
func (s *System) Timezones(ctx context.Context) ([]string, error) {
	return s.lines(ctx, s.cmds.Timezones)
}

func (s *System) lines(ctx context.Context, argv []string) ([]string, error) {
	if len(argv) == 0 {
		return nil, ErrNoCommand
	}
	out, err := s.run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return ParseLines(out), nil
}

// ParseLines splits command output into non-empty lines, preserving order
func ParseLines(out []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// IsWireless reports whether an interface name denotes a wireless adapter
func IsWireless(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "wlan") || strings.Contains(lower, "wifi") || strings.HasPrefix(lower, "wl") {
		return true
	}
	if name == "" || strings.ContainsRune(name, filepath.Separator) {
		return false
	}
	_, err := os.Stat(filepath.Join(sysClassNet, name, "wireless"))
	return err == nil
}
