// Package wizard holds the setup session and the state machine that moves
// it between screens.
package wizard

import (
	"context"
	"errors"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"shadowmite/internal/catalog"
	"shadowmite/internal/scan"
	"shadowmite/internal/sysinfo"
)

// Network screen status lines
const (
	StatusSelectInterface = "Select your interface."
	StatusScanning        = "Scanning Wi-Fi..."
	StatusSelectWifi      = "Select Wi-Fi and enter password."
	StatusNoNetworks      = "No networks found."
	StatusEthernet        = "Ethernet selected."
)

// CatalogLoader produces a fresh catalog on every call
type CatalogLoader interface {
	Load() (*catalog.Catalog, error)
}

// Scanner starts and retires single-flight wifi scans
type Scanner interface {
	Begin(ctx context.Context, iface string) (*scan.Handle, bool)
	Finish(h *scan.Handle) bool
}

// Machine owns the Session and applies every transition to it.
type Machine struct {
	session Session

	loader  CatalogLoader
	scanner Scanner
	logger  *log.Logger

	isWireless func(name string) bool

	// Network screen
	networks    []string
	wifiEnabled bool
	status      string
	scan        *scan.Handle

	// Apps screen
	catalog    *catalog.Catalog
	catalogErr error

	// Summary screen
	snapshot catalog.Snapshot
}

// New creates a machine on the Welcome screen. A nil logger discards
// diagnostics.
func New(loader CatalogLoader, scanner Scanner, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Machine{
		session:    Session{Screen: ScreenWelcome},
		loader:     loader,
		scanner:    scanner,
		logger:     logger,
		isWireless: sysinfo.IsWireless,
		status:     StatusSelectInterface,
	}
}

// SetWirelessFunc overrides interface kind detection
func (m *Machine) SetWirelessFunc(fn func(name string) bool) {
	m.isWireless = fn
}

// Session returns a copy of the accumulated choices
func (m *Machine) Session() Session {
	return m.session
}

// Screen returns the current screen
func (m *Machine) Screen() Screen {
	return m.session.Screen
}

// Fire applies an argument-free trigger. It returns false, changing nothing,
// when the trigger has no edge from the current screen. The Network screen
// is held while a scan is outstanding.
func (m *Machine) Fire(t Trigger) bool {
	to, ok := Target(m.session.Screen, t)
	if !ok {
		m.logger.Debug("ignored transition", "screen", m.session.Screen, "trigger", t)
		return false
	}
	if m.session.Screen == ScreenNetwork && m.scan != nil {
		m.logger.Debug("transition held during scan", "trigger", t)
		return false
	}
	m.enter(to)
	return true
}

func (m *Machine) enter(to Screen) {
	from := m.session.Screen
	m.session.Screen = to
	m.logger.Debug("screen changed", "from", from, "to", to)

	switch to {
	case ScreenApps:
		m.reload()
	case ScreenFinish:
		m.logger.Info("wizard finished", "summary", m.session.Line())
	}
}

// ChangeInterface records the chosen adapter. A wireless adapter starts a
// scan and disables the wifi inputs until ApplyScan; a wired one clears any
// wifi choice. The change is refused while a scan is outstanding or off the
// Network screen. The returned handle is non-nil only when a scan started.
func (m *Machine) ChangeInterface(ctx context.Context, name string) (*scan.Handle, bool) {
	if m.session.Screen != ScreenNetwork || m.scan != nil || name == "" {
		return nil, false
	}

	m.session.Interface = name
	m.session.Wifi = ""
	m.session.WifiPassword = ""
	m.networks = nil
	m.wifiEnabled = false

	if !m.isWireless(name) {
		m.status = StatusEthernet
		m.logger.Debug("wired interface selected", "iface", name)
		return nil, true
	}

	h, started := m.scanner.Begin(ctx, name)
	if !started {
		m.logger.Warn("scan already outstanding", "iface", name)
		return nil, false
	}
	m.scan = h
	m.status = StatusScanning
	return h, true
}

// ApplyScan consumes a delivered scan result. Results for a handle other
// than the outstanding one are dropped.
func (m *Machine) ApplyScan(h *scan.Handle, res scan.Result) bool {
	if h == nil || h != m.scan {
		return false
	}
	m.scanner.Finish(h)
	m.scan = nil

	m.networks = slices.Clone(res.Networks)
	m.wifiEnabled = true
	if res.Empty() {
		m.status = StatusNoNetworks
	} else {
		m.status = StatusSelectWifi
	}
	return true
}

// Scanning reports whether a scan is outstanding
func (m *Machine) Scanning() bool {
	return m.scan != nil
}

// Networks returns the SSIDs from the last applied scan
func (m *Machine) Networks() []string {
	return m.networks
}

// WifiEnabled reports whether the SSID and password inputs accept input
func (m *Machine) WifiEnabled() bool {
	return m.wifiEnabled
}

// Status returns the Network screen status line
func (m *Machine) Status() string {
	return m.status
}

// ChooseWifi records an SSID from the scanned list
func (m *Machine) ChooseWifi(ssid string) bool {
	if m.session.Screen != ScreenNetwork || !m.wifiEnabled || !slices.Contains(m.networks, ssid) {
		return false
	}
	m.session.Wifi = ssid
	return true
}

// SetWifiPassword records the wifi secret
func (m *Machine) SetWifiPassword(password string) bool {
	if m.session.Screen != ScreenNetwork || !m.wifiEnabled {
		return false
	}
	m.session.WifiPassword = password
	return true
}

// SetStaticIP stores the advanced network settings
func (m *Machine) SetStaticIP(cfg StaticIP) bool {
	if m.session.Screen != ScreenNetwork {
		return false
	}
	m.session.StaticIP = &cfg
	m.logger.Info("address settings", "iface", m.session.Interface, "mode", cfg.Mode,
		"ip", cfg.Address, "gateway", cfg.Gateway, "dns", cfg.DNS)
	return true
}

// ChooseLocale records the language
func (m *Machine) ChooseLocale(locale string) bool {
	if m.session.Screen != ScreenLocale || locale == "" {
		return false
	}
	m.session.Locale = locale
	return true
}

// ChooseTimezone records the timezone
func (m *Machine) ChooseTimezone(tz string) bool {
	if m.session.Screen != ScreenLocale || tz == "" {
		return false
	}
	m.session.Timezone = tz
	return true
}

// Catalog returns the catalog loaded when Apps was last entered
func (m *Machine) Catalog() *catalog.Catalog {
	return m.catalog
}

// CatalogErr returns the error from the last load, if the catalog directory
// was unusable.
func (m *Machine) CatalogErr() error {
	return m.catalogErr
}

// Reload re-reads the catalog in place. Only valid on the Apps screen.
func (m *Machine) Reload() bool {
	if m.session.Screen != ScreenApps {
		return false
	}
	m.reload()
	return true
}

func (m *Machine) reload() {
	cat, err := m.loader.Load()
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	m.catalog = cat
	m.catalogErr = err
	if err != nil {
		m.logger.Error("catalog unavailable", "err", err)
	}
}

// CatalogUnavailable reports whether the last load could not use the catalog
// directory at all.
func (m *Machine) CatalogUnavailable() bool {
	return errors.Is(m.catalogErr, catalog.ErrUnavailable)
}

// Select picks a catalog entry by id and moves to Summary.
func (m *Machine) Select(id string) bool {
	if m.session.Screen != ScreenApps {
		return false
	}
	app, ok := m.catalog.Lookup(id)
	if !ok {
		return false
	}

	m.session.SelectedApp = &app
	m.session.SelectedPackage = app.PackageID

	snap, err := catalog.Capture(app.RecordPath())
	if err != nil {
		m.logger.Debug("record snapshot failed", "path", app.RecordPath(), "err", err)
		snap = catalog.Snapshot{}
	}
	m.snapshot = snap

	m.enter(ScreenSummary)
	return true
}

// RecordChange compares the selected record with its contents at selection
// time. The session keeps the values read then.
func (m *Machine) RecordChange() catalog.Change {
	if m.session.SelectedApp == nil || m.snapshot.Path == "" {
		return catalog.Change{}
	}
	return m.snapshot.Compare()
}
