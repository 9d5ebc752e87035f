package hal

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/device"
)

// PortAudio implements device.System on top of PortAudio. Native IDs are
// PortAudio device indices.
type PortAudio struct {
	log        zerolog.Logger
	transports *transportSnapshot
}

// NewPortAudio initializes PortAudio. Close terminates it.
func NewPortAudio(logger zerolog.Logger) (*PortAudio, error) {
	if err := initPortAudio(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}
	l := logger.With().Str("backend", BackendPortAudio).Logger()
	l.Debug().Str("version", portaudio.VersionText()).Msg("portaudio initialized")
	return &PortAudio{log: l, transports: newTransportSnapshot(readTransports, l)}, nil
}

// Close terminates PortAudio.
func (p *PortAudio) Close() error {
	return portaudio.Terminate()
}

func (p *PortAudio) devices() ([]*portaudio.DeviceInfo, []string, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, nil, fmt.Errorf("portaudio devices: %w", err)
	}
	return devs, paUIDs(devs), nil
}

func (p *PortAudio) info(id device.NativeID) (*portaudio.DeviceInfo, string, error) {
	devs, uids, err := p.devices()
	if err != nil {
		return nil, "", err
	}
	if int(id) >= len(devs) {
		return nil, "", fmt.Errorf("device %d: %w", id, ErrNoSuchDevice)
	}
	return devs[id], uids[id], nil
}

// paUIDs builds identifiers for every device. PortAudio has no persistent
// device UID, so the host API name scopes the device name. Repeats of the
// same pair, such as two identical USB microphones, get "#2", "#3" and so
// on in index order.
func paUIDs(devs []*portaudio.DeviceInfo) []string {
	uids := make([]string, len(devs))
	seen := make(map[string]int, len(devs))
	for i, d := range devs {
		uid := d.Name
		if d.HostApi != nil {
			uid = d.HostApi.Name + ":" + d.Name
		}
		seen[uid]++
		if n := seen[uid]; n > 1 {
			uid = fmt.Sprintf("%s#%d", uid, n)
		}
		uids[i] = uid
	}
	return uids
}

func (p *PortAudio) DeviceList() ([]device.NativeID, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("portaudio devices: %w", err)
	}
	p.transports.reset()
	ids := make([]device.NativeID, len(devs))
	for i := range devs {
		ids[i] = device.NativeID(i)
	}
	return ids, nil
}

func (p *PortAudio) InputChannelCount(id device.NativeID) (int, error) {
	info, _, err := p.info(id)
	if err != nil {
		return 0, err
	}
	return info.MaxInputChannels, nil
}

func (p *PortAudio) TransportType(id device.NativeID) (device.Transport, error) {
	info, uid, err := p.info(id)
	if err != nil {
		return device.TransportUnknown, err
	}
	return p.transports.lookup(uid, info.Name)
}

func (p *PortAudio) UID(id device.NativeID) (string, error) {
	info, uid, err := p.info(id)
	if err != nil {
		return "", err
	}
	if info.Name == "" {
		return "", fmt.Errorf("device %d: %w", id, ErrNoUID)
	}
	return uid, nil
}

func (p *PortAudio) Name(id device.NativeID) (string, error) {
	info, _, err := p.info(id)
	if err != nil {
		return "", err
	}
	return info.Name, nil
}

func (p *PortAudio) DefaultCaptureDevice() (device.CaptureDevice, bool, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil || info == nil || info.MaxInputChannels <= 0 {
		// PortAudio reports a missing default as paNoDevice.
		return device.CaptureDevice{}, false, nil
	}
	devs, uids, err := p.devices()
	if err != nil {
		return device.CaptureDevice{}, false, err
	}
	// Device infos are cached by the library, so the default is one of devs.
	for i, d := range devs {
		if d == info {
			return device.CaptureDevice{UniqueID: uids[i], Name: d.Name}, true, nil
		}
	}
	return device.CaptureDevice{}, false, nil
}

func (p *PortAudio) CaptureDevices() ([]device.CaptureDevice, error) {
	devs, uids, err := p.devices()
	if err != nil {
		return nil, err
	}
	var out []device.CaptureDevice
	for i, d := range devs {
		if d.MaxInputChannels > 0 {
			out = append(out, device.CaptureDevice{UniqueID: uids[i], Name: d.Name})
		}
	}
	return out, nil
}

// OpenCapture opens a blocking int16 input stream on dev. The stream is not
// started.
func (p *PortAudio) OpenCapture(dev device.CaptureDevice) (device.CaptureHandle, error) {
	devs, uids, err := p.devices()
	if err != nil {
		return nil, err
	}
	var info *portaudio.DeviceInfo
	for i, d := range devs {
		if d.MaxInputChannels > 0 && uids[i] == dev.UniqueID {
			info = d
			break
		}
	}
	if info == nil {
		return nil, fmt.Errorf("%s: %w", dev.UniqueID, ErrNoSuchDevice)
	}

	channels := info.MaxInputChannels
	if channels > 2 {
		channels = 2
	}

	framesPerBuffer := int(info.DefaultSampleRate / 10) // ~100ms chunks
	buf := make([]int16, framesPerBuffer*channels)

	stream, err := portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: channels,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      info.DefaultSampleRate,
		FramesPerBuffer: framesPerBuffer,
	}, buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}

	p.log.Debug().Str("device", info.Name).Int("channels", channels).Float64("sample_rate", info.DefaultSampleRate).Msg("stream opened")
	return &PortAudioCapture{
		dev:        dev,
		stream:     stream,
		buf:        buf,
		channels:   channels,
		sampleRate: info.DefaultSampleRate,
	}, nil
}

// PortAudioCapture is an opened PortAudio input stream. Each Stream().Read()
// fills Buffer() with interleaved samples.
type PortAudioCapture struct {
	dev        device.CaptureDevice
	stream     *portaudio.Stream
	buf        []int16
	channels   int
	sampleRate float64
}

func (c *PortAudioCapture) Device() device.CaptureDevice { return c.dev }
func (c *PortAudioCapture) Stream() *portaudio.Stream    { return c.stream }
func (c *PortAudioCapture) Buffer() []int16              { return c.buf }
func (c *PortAudioCapture) Channels() int                { return c.channels }
func (c *PortAudioCapture) SampleRate() float64          { return c.sampleRate }

// Close closes the underlying stream.
func (c *PortAudioCapture) Close() error {
	return c.stream.Close()
}
