package hal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/device"
)

// transportEntry is one device as reported by the platform's audio tooling.
type transportEntry struct {
	name        string // stable source name, when the platform has one
	description string
	cardName    string
	transport   device.Transport
}

type transportTable []transportEntry

// lookup finds the transport for a device by UID, then by display name, then
// by sound card name prefix ("HDA Intel PCH: ALC3246 Analog (hw:0,0)").
func (tt transportTable) lookup(uid, name string) (device.Transport, error) {
	for _, e := range tt {
		if uid != "" && e.name == uid {
			return e.transport, nil
		}
	}
	for _, e := range tt {
		if name != "" && (strings.EqualFold(e.description, name) || e.name == name) {
			return e.transport, nil
		}
	}
	for _, e := range tt {
		if e.cardName != "" && strings.HasPrefix(name, e.cardName) {
			return e.transport, nil
		}
	}
	return device.TransportUnknown, fmt.Errorf("transport for %q: %w", name, ErrNoTransport)
}

// transportSnapshot reads platform transports at most once per device listing.
// Backends call reset from DeviceList so every listing sees fresh data.
type transportSnapshot struct {
	read func() (transportTable, error)
	log  zerolog.Logger

	mu    sync.Mutex
	taken bool
	table transportTable
	err   error
}

func newTransportSnapshot(read func() (transportTable, error), log zerolog.Logger) *transportSnapshot {
	return &transportSnapshot{read: read, log: log}
}

func (s *transportSnapshot) reset() {
	s.mu.Lock()
	s.taken = false
	s.table = nil
	s.err = nil
	s.mu.Unlock()
}

func (s *transportSnapshot) lookup(uid, name string) (device.Transport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.taken {
		s.table, s.err = s.read()
		s.taken = true
		if s.err != nil {
			s.log.Warn().Err(s.err).
				Msg("transport types unavailable, filtered device lists will be empty; set transport_filter = \"any\" or pass --filter any")
		}
	}
	if s.err != nil {
		return device.TransportUnknown, s.err
	}
	return s.table.lookup(uid, name)
}

// parsePactlSources parses the output of `pactl list sources`.
func parsePactlSources(out string) transportTable {
	var (
		table  transportTable
		cur    *transportEntry
		props  map[string]string
		finish = func() {
			if cur == nil {
				return
			}
			cur.cardName = props["alsa.card_name"]
			cur.transport = pactlTransport(props)
			table = append(table, *cur)
		}
	)

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "Source #"):
			finish()
			cur = &transportEntry{}
			props = map[string]string{}
		case cur == nil:
		case strings.HasPrefix(line, "Name: "):
			cur.name = strings.TrimPrefix(line, "Name: ")
		case strings.HasPrefix(line, "Description: "):
			cur.description = strings.TrimPrefix(line, "Description: ")
		default:
			k, v, ok := strings.Cut(line, " = ")
			if ok {
				props[k] = strings.Trim(v, `"`)
			}
		}
	}
	finish()
	return table
}

func pactlTransport(props map[string]string) device.Transport {
	if props["device.class"] == "monitor" {
		return device.TransportVirtual
	}
	if props["device.form_factor"] == "internal" {
		return device.TransportBuiltIn
	}
	switch props["device.bus"] {
	case "usb":
		return device.TransportUSB
	case "bluetooth":
		return device.TransportBluetooth
	case "pci":
		// Onboard HDA codecs sit on the PCI bus.
		return device.TransportBuiltIn
	case "firewire", "thunderbolt":
		return device.TransportThunderbolt
	case "network":
		return device.TransportNetwork
	}
	switch props["device.api"] {
	case "bluez5":
		return device.TransportBluetooth
	case "raop", "rtp", "roc", "tunnel":
		return device.TransportNetwork
	}
	if props["device.class"] == "abstract" || props["factory.name"] == "support.null-audio-sink" {
		return device.TransportVirtual
	}
	return device.TransportUnknown
}

type spAudio struct {
	SPAudioDataType []struct {
		Items []struct {
			Name      string `json:"_name"`
			Transport string `json:"coreaudio_device_transport"`
		} `json:"_items"`
	} `json:"SPAudioDataType"`
}

// parseSystemProfiler parses `system_profiler SPAudioDataType -json`.
func parseSystemProfiler(data []byte) (transportTable, error) {
	var sp spAudio
	if err := json.Unmarshal(data, &sp); err != nil {
		return nil, fmt.Errorf("decode system_profiler: %w", err)
	}
	var table transportTable
	for _, group := range sp.SPAudioDataType {
		for _, item := range group.Items {
			table = append(table, transportEntry{
				description: item.Name,
				transport:   coreAudioTransport(item.Transport),
			})
		}
	}
	return table, nil
}

func coreAudioTransport(s string) device.Transport {
	switch strings.TrimPrefix(s, "coreaudio_device_type_") {
	case "builtin":
		return device.TransportBuiltIn
	case "usb":
		return device.TransportUSB
	case "bluetooth", "bluetoothle":
		return device.TransportBluetooth
	case "virtual":
		return device.TransportVirtual
	case "hdmi", "displayport":
		return device.TransportDisplay
	case "aggregate":
		return device.TransportAggregate
	case "thunderbolt", "firewire":
		return device.TransportThunderbolt
	case "pci":
		return device.TransportPCI
	case "airplay", "avb", "network":
		return device.TransportNetwork
	default:
		return device.TransportUnknown
	}
}
