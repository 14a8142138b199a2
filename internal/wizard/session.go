package wizard

import (
	"fmt"
	"strings"

	"shadowmite/internal/catalog"
)

// AddressMode selects how the interface gets its address
type AddressMode int

const (
	AddressDHCP AddressMode = iota
	AddressStatic
)

func (m AddressMode) String() string {
	if m == AddressStatic {
		return "Static"
	}
	return "DHCP"
}

// StaticIP holds the advanced network settings. Values are stored as typed
// and never validated.
type StaticIP struct {
	Mode    AddressMode
	Address string
	Gateway string
	DNS     string
}

func (s StaticIP) String() string {
	if s.Mode == AddressDHCP {
		return "DHCP"
	}
	return fmt.Sprintf("Static IP=%s GW=%s DNS=%s", s.Address, s.Gateway, s.DNS)
}

// Session accumulates the operator's choices for one run. Only Machine
// mutates it.
type Session struct {
	Screen Screen

	Interface    string
	Wifi         string
	WifiPassword string
	StaticIP     *StaticIP

	Locale   string
	Timezone string

	SelectedApp     *catalog.Application
	SelectedPackage string
}

// Line renders the one-line run summary shown when the wizard finishes
func (s Session) Line() string {
	wifi := s.Wifi
	if wifi == "" {
		wifi = "None"
	}
	return "Iface: " + s.Interface + "  Wi-Fi: " + wifi + "  Lang: " + s.Locale + "  TZ: " + s.Timezone
}

// Details lists every recorded choice as label/value pairs for display
func (s Session) Details() [][2]string {
	none := func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "None"
		}
		return v
	}

	rows := [][2]string{
		{"Interface", none(s.Interface)},
		{"Wi-Fi", none(s.Wifi)},
	}
	if s.StaticIP != nil {
		rows = append(rows, [2]string{"Address", s.StaticIP.String()})
	}
	rows = append(rows,
		[2]string{"Language", none(s.Locale)},
		[2]string{"Timezone", none(s.Timezone)},
	)
	if s.SelectedApp != nil {
		rows = append(rows,
			[2]string{"App", s.SelectedApp.Name},
			[2]string{"Package", none(s.SelectedPackage)},
		)
	}
	return rows
}
