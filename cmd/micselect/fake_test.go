package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/device"
	"github.com/Danondso/micselect/internal/hal"
)

type fakeMic struct {
	uid       string
	name      string
	channels  int
	transport device.Transport
}

type fakeBackend struct {
	mics       []fakeMic
	defaultUID string

	openedAs string
	opened   []string
	handles  []*fakeHandle
	closed   bool
}

type fakeHandle struct {
	dev    device.CaptureDevice
	closed bool
}

func (h *fakeHandle) Device() device.CaptureDevice { return h.dev }

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

// useFakeBackend routes openBackend to b for the duration of the test.
func useFakeBackend(t *testing.T, b *fakeBackend) {
	t.Helper()
	prev := openBackend
	openBackend = func(name string, _ zerolog.Logger) (hal.Backend, error) {
		b.openedAs = name
		return b, nil
	}
	t.Cleanup(func() { openBackend = prev })
}

func (b *fakeBackend) mic(id device.NativeID) (fakeMic, error) {
	if int(id) >= len(b.mics) {
		return fakeMic{}, hal.ErrNoSuchDevice
	}
	return b.mics[id], nil
}

func (b *fakeBackend) DeviceList() ([]device.NativeID, error) {
	ids := make([]device.NativeID, len(b.mics))
	for i := range b.mics {
		ids[i] = device.NativeID(i)
	}
	return ids, nil
}

func (b *fakeBackend) InputChannelCount(id device.NativeID) (int, error) {
	m, err := b.mic(id)
	return m.channels, err
}

func (b *fakeBackend) TransportType(id device.NativeID) (device.Transport, error) {
	m, err := b.mic(id)
	return m.transport, err
}

func (b *fakeBackend) UID(id device.NativeID) (string, error) {
	m, err := b.mic(id)
	return m.uid, err
}

func (b *fakeBackend) Name(id device.NativeID) (string, error) {
	m, err := b.mic(id)
	return m.name, err
}

func (b *fakeBackend) DefaultCaptureDevice() (device.CaptureDevice, bool, error) {
	for _, m := range b.mics {
		if m.uid == b.defaultUID && m.channels > 0 {
			return device.CaptureDevice{UniqueID: m.uid, Name: m.name}, true, nil
		}
	}
	return device.CaptureDevice{}, false, nil
}

func (b *fakeBackend) CaptureDevices() ([]device.CaptureDevice, error) {
	var out []device.CaptureDevice
	for _, m := range b.mics {
		if m.channels > 0 {
			out = append(out, device.CaptureDevice{UniqueID: m.uid, Name: m.name})
		}
	}
	return out, nil
}

func (b *fakeBackend) OpenCapture(dev device.CaptureDevice) (device.CaptureHandle, error) {
	if dev.UniqueID == "" {
		return nil, errors.New("empty uid")
	}
	b.opened = append(b.opened, dev.UniqueID)
	h := &fakeHandle{dev: dev}
	b.handles = append(b.handles, h)
	return h, nil
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

// studioBackend has a built-in mic, a USB mic, a Bluetooth headset and an
// output-only device, in that order.
func studioBackend() *fakeBackend {
	return &fakeBackend{
		mics: []fakeMic{
			{uid: "BuiltInMicrophoneDevice", name: "MacBook Pro Microphone", channels: 1, transport: device.TransportBuiltIn},
			{uid: "AppleUSBAudioEngine:Blue:Yeti:1", name: "Yeti Stereo Microphone", channels: 2, transport: device.TransportUSB},
			{uid: "00-1B-66-AA-BB-CC:input", name: "WH-1000XM4", channels: 1, transport: device.TransportBluetooth},
			{uid: "BuiltInSpeakerDevice", name: "MacBook Pro Speakers", channels: 0, transport: device.TransportBuiltIn},
		},
		defaultUID: "BuiltInMicrophoneDevice",
	}
}
