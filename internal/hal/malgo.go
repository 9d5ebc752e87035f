package hal

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gen2brain/malgo"
	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/device"
)

// Malgo implements device.System on top of miniaudio. Native IDs are
// positions in the capture-then-playback enumeration.
type Malgo struct {
	ctx        *malgo.AllocatedContext
	log        zerolog.Logger
	transports *transportSnapshot
}

type malgoEntry struct {
	typ  malgo.DeviceType
	info malgo.DeviceInfo
}

// NewMalgo creates a miniaudio context. Close releases it.
func NewMalgo(logger zerolog.Logger) (*Malgo, error) {
	l := logger.With().Str("backend", BackendMalgo).Logger()
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		l.Debug().Msg(strings.TrimSpace(msg))
	})
	if err != nil {
		return nil, fmt.Errorf("malgo init context: %w", err)
	}
	return &Malgo{ctx: ctx, log: l, transports: newTransportSnapshot(readTransports, l)}, nil
}

// Close uninitializes and frees the miniaudio context.
func (m *Malgo) Close() error {
	err := m.ctx.Uninit()
	m.ctx.Free()
	return err
}

func (m *Malgo) entries() ([]malgoEntry, error) {
	capture, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("capture devices: %w", err)
	}
	playback, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("playback devices: %w", err)
	}

	out := make([]malgoEntry, 0, len(capture)+len(playback))
	for _, d := range capture {
		out = append(out, malgoEntry{typ: malgo.Capture, info: d})
	}
	for _, d := range playback {
		out = append(out, malgoEntry{typ: malgo.Playback, info: d})
	}
	return out, nil
}

func (m *Malgo) entry(id device.NativeID) (malgoEntry, error) {
	all, err := m.entries()
	if err != nil {
		return malgoEntry{}, err
	}
	if int(id) >= len(all) {
		return malgoEntry{}, fmt.Errorf("device %d: %w", id, ErrNoSuchDevice)
	}
	return all[id], nil
}

// formatDeviceID renders a miniaudio device ID as text. Most backends store
// string IDs (CoreAudio UIDs, PulseAudio source names, ALSA ids) NUL padded.
// IDs that are not printable text, such as WASAPI's UTF-16 endpoint IDs or
// AAudio's numeric ids, use the hex form from malgo.
func formatDeviceID(d malgo.DeviceID) string {
	n := len(d)
	for n > 0 && d[n-1] == 0 {
		n--
	}
	s := string(d[:n])
	if !utf8.ValidString(s) || strings.IndexFunc(s, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
		return d.String()
	}
	return s
}

func (m *Malgo) DeviceList() ([]device.NativeID, error) {
	all, err := m.entries()
	if err != nil {
		return nil, err
	}
	m.transports.reset()
	ids := make([]device.NativeID, len(all))
	for i := range all {
		ids[i] = device.NativeID(i)
	}
	return ids, nil
}

func (m *Malgo) InputChannelCount(id device.NativeID) (int, error) {
	e, err := m.entry(id)
	if err != nil {
		return 0, err
	}
	if e.typ != malgo.Capture {
		return 0, nil
	}
	full, err := m.ctx.DeviceInfo(malgo.Capture, e.info.ID, malgo.Shared)
	if err != nil {
		return 0, fmt.Errorf("device info: %w", err)
	}
	channels := 0
	for i := 0; i < int(full.FormatCount) && i < len(full.Formats); i++ {
		if c := int(full.Formats[i].Channels); c > channels {
			channels = c
		}
	}
	// miniaudio reports 0 when any channel count is accepted.
	if channels == 0 {
		channels = 1
	}
	return channels, nil
}

func (m *Malgo) TransportType(id device.NativeID) (device.Transport, error) {
	e, err := m.entry(id)
	if err != nil {
		return device.TransportUnknown, err
	}
	return m.transports.lookup(formatDeviceID(e.info.ID), e.info.Name())
}

func (m *Malgo) UID(id device.NativeID) (string, error) {
	e, err := m.entry(id)
	if err != nil {
		return "", err
	}
	uid := formatDeviceID(e.info.ID)
	if uid == "" {
		return "", fmt.Errorf("device %d: %w", id, ErrNoUID)
	}
	return uid, nil
}

func (m *Malgo) Name(id device.NativeID) (string, error) {
	e, err := m.entry(id)
	if err != nil {
		return "", err
	}
	return e.info.Name(), nil
}

func (m *Malgo) DefaultCaptureDevice() (device.CaptureDevice, bool, error) {
	devs, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return device.CaptureDevice{}, false, fmt.Errorf("capture devices: %w", err)
	}
	for _, d := range devs {
		if d.IsDefault == 1 {
			return device.CaptureDevice{UniqueID: formatDeviceID(d.ID), Name: d.Name()}, true, nil
		}
	}
	return device.CaptureDevice{}, false, nil
}

func (m *Malgo) CaptureDevices() ([]device.CaptureDevice, error) {
	devs, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("capture devices: %w", err)
	}
	out := make([]device.CaptureDevice, 0, len(devs))
	for _, d := range devs {
		out = append(out, device.CaptureDevice{UniqueID: formatDeviceID(d.ID), Name: d.Name()})
	}
	return out, nil
}

// OpenCapture initializes a mono S16 capture device. It is not started.
func (m *Malgo) OpenCapture(dev device.CaptureDevice) (device.CaptureHandle, error) {
	devs, err := m.ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("capture devices: %w", err)
	}

	h := &MalgoCapture{dev: dev}
	found := false
	for _, d := range devs {
		if formatDeviceID(d.ID) == dev.UniqueID {
			h.id = d.ID
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", dev.UniqueID, ErrNoSuchDevice)
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = 1
	cfg.Capture.DeviceID = h.id.Pointer()

	md, err := malgo.InitDevice(m.ctx.Context, cfg, malgo.DeviceCallbacks{
		Data: h.onData,
	})
	if err != nil {
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	h.device = md

	m.log.Debug().Str("device", dev.Name).Uint32("sample_rate", md.SampleRate()).Msg("capture device initialized")
	return h, nil
}

// MalgoCapture is an initialized miniaudio capture device. Captured frames
// are delivered to the sink registered with SetSink once Start is called.
type MalgoCapture struct {
	dev    device.CaptureDevice
	id     malgo.DeviceID
	device *malgo.Device

	mu   sync.Mutex
	sink func(samples []byte, frames uint32)
}

func (c *MalgoCapture) Device() device.CaptureDevice { return c.dev }

// SetSink registers the receiver of captured S16 mono frames.
func (c *MalgoCapture) SetSink(fn func(samples []byte, frames uint32)) {
	c.mu.Lock()
	c.sink = fn
	c.mu.Unlock()
}

// onData runs on the miniaudio audio thread.
func (c *MalgoCapture) onData(_, input []byte, frames uint32) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink(input, frames)
	}
}

func (c *MalgoCapture) Start() error { return c.device.Start() }
func (c *MalgoCapture) Stop() error  { return c.device.Stop() }

// Close uninitializes the device.
func (c *MalgoCapture) Close() error {
	c.device.Uninit()
	return nil
}
