package device

import (
	"errors"
	"fmt"
)

var errFake = errors.New("fake os error")

type fakeDevice struct {
	id        NativeID
	uid       string
	name      string
	channels  int
	transport Transport

	noUID       bool
	noName      bool
	noChannels  bool
	noTransport bool
	capture     bool // reported by capture discovery
}

type fakeSystem struct {
	devices   []fakeDevice
	listErr   error
	defaultID string
	hasDef    bool
	discErr   error
	openErr   error

	opened []CaptureDevice
}

type fakeHandle struct {
	dev    CaptureDevice
	closed bool
}

func (h *fakeHandle) Device() CaptureDevice { return h.dev }

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

func (s *fakeSystem) find(id NativeID) (*fakeDevice, error) {
	for i := range s.devices {
		if s.devices[i].id == id {
			return &s.devices[i], nil
		}
	}
	return nil, fmt.Errorf("device %d: %w", id, errFake)
}

func (s *fakeSystem) DeviceList() ([]NativeID, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	ids := make([]NativeID, len(s.devices))
	for i, d := range s.devices {
		ids[i] = d.id
	}
	return ids, nil
}

func (s *fakeSystem) InputChannelCount(id NativeID) (int, error) {
	d, err := s.find(id)
	if err != nil {
		return 0, err
	}
	if d.noChannels {
		return 0, errFake
	}
	return d.channels, nil
}

func (s *fakeSystem) TransportType(id NativeID) (Transport, error) {
	d, err := s.find(id)
	if err != nil {
		return TransportUnknown, err
	}
	if d.noTransport {
		return TransportUnknown, errFake
	}
	return d.transport, nil
}

func (s *fakeSystem) UID(id NativeID) (string, error) {
	d, err := s.find(id)
	if err != nil {
		return "", err
	}
	if d.noUID {
		return "", errFake
	}
	return d.uid, nil
}

func (s *fakeSystem) Name(id NativeID) (string, error) {
	d, err := s.find(id)
	if err != nil {
		return "", err
	}
	if d.noName {
		return "", errFake
	}
	return d.name, nil
}

func (s *fakeSystem) DefaultCaptureDevice() (CaptureDevice, bool, error) {
	if !s.hasDef {
		return CaptureDevice{}, false, nil
	}
	for _, d := range s.devices {
		if d.uid == s.defaultID {
			return CaptureDevice{UniqueID: d.uid, Name: d.name}, true, nil
		}
	}
	return CaptureDevice{}, false, nil
}

func (s *fakeSystem) CaptureDevices() ([]CaptureDevice, error) {
	if s.discErr != nil {
		return nil, s.discErr
	}
	var out []CaptureDevice
	for _, d := range s.devices {
		if d.capture {
			out = append(out, CaptureDevice{UniqueID: d.uid, Name: d.name})
		}
	}
	return out, nil
}

func (s *fakeSystem) OpenCapture(dev CaptureDevice) (CaptureHandle, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	s.opened = append(s.opened, dev)
	return &fakeHandle{dev: dev}, nil
}
