package device

import (
	"fmt"
	"strings"
)

// Transport is the connection class of an audio device.
type Transport int

const (
	TransportUnknown Transport = iota
	TransportBuiltIn
	TransportUSB
	TransportBluetooth
	TransportNetwork
	TransportVirtual
	TransportPCI
	TransportDisplay
	TransportAggregate
	TransportThunderbolt
)

var transportNames = map[Transport]string{
	TransportUnknown:     "unknown",
	TransportBuiltIn:     "builtin",
	TransportUSB:         "usb",
	TransportBluetooth:   "bluetooth",
	TransportNetwork:     "network",
	TransportVirtual:     "virtual",
	TransportPCI:         "pci",
	TransportDisplay:     "display",
	TransportAggregate:   "aggregate",
	TransportThunderbolt: "thunderbolt",
}

func (t Transport) String() string {
	if s, ok := transportNames[t]; ok {
		return s
	}
	return fmt.Sprintf("transport(%d)", int(t))
}

// TransportFilter selects which transports are offered as inputs.
type TransportFilter int

const (
	// FilterUSBAndBuiltIn drops Bluetooth, network and every other transport
	// that adds latency or lowers quality for recording.
	FilterUSBAndBuiltIn TransportFilter = iota
	// FilterAny accepts every device with input channels.
	FilterAny
)

func (f TransportFilter) String() string {
	switch f {
	case FilterAny:
		return "any"
	case FilterUSBAndBuiltIn:
		return "usb_builtin"
	default:
		return fmt.Sprintf("filter(%d)", int(f))
	}
}

// Allows reports whether a device on transport t passes the filter.
func (f TransportFilter) Allows(t Transport) bool {
	if f == FilterAny {
		return true
	}
	return t == TransportUSB || t == TransportBuiltIn
}

// ParseTransportFilter parses the config spelling of a filter.
func ParseTransportFilter(s string) (TransportFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "usb_builtin", "usb-builtin", "usbandbuiltinonly":
		return FilterUSBAndBuiltIn, nil
	case "any":
		return FilterAny, nil
	default:
		return 0, fmt.Errorf("unknown transport filter: %s", s)
	}
}

// DedupePolicy decides which entries of a listing count as duplicates.
type DedupePolicy int

const (
	// DedupeByLabel keeps the first device for each display name. Two
	// distinct devices sharing a manufacturer name collapse into one entry.
	DedupeByLabel DedupePolicy = iota
	// DedupeByID keeps every device with a distinct ID.
	DedupeByID
)

func (p DedupePolicy) String() string {
	if p == DedupeByID {
		return "id"
	}
	return "label"
}

// ParseDedupePolicy parses the config spelling of a dedupe policy.
func ParseDedupePolicy(s string) (DedupePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "label", "name":
		return DedupeByLabel, nil
	case "id", "uid":
		return DedupeByID, nil
	default:
		return 0, fmt.Errorf("unknown dedupe policy: %s", s)
	}
}
