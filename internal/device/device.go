// Package device discovers usable microphone inputs and resolves a device
// identifier to an opened capture handle.
package device

import "strconv"

// NativeID is the OS-internal numeric identifier of an audio device. It is
// only stable within one OS session.
type NativeID uint32

// String renders the ID in the decimal form legacy callers pass around.
func (id NativeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// InputDevice is one selectable microphone as shown to the user.
type InputDevice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CaptureDevice is a device as reported by the capture-discovery facility.
type CaptureDevice struct {
	UniqueID string
	Name     string
}

// CaptureHandle is an opened binding to one input device. The caller owns it
// and must Close it.
type CaptureHandle interface {
	Device() CaptureDevice
	Close() error
}

// PropertyReader exposes the per-device properties of the OS audio subsystem.
type PropertyReader interface {
	// DeviceList returns every registered audio device, input and output.
	DeviceList() ([]NativeID, error)
	InputChannelCount(id NativeID) (int, error)
	TransportType(id NativeID) (Transport, error)
	UID(id NativeID) (string, error)
	Name(id NativeID) (string, error)
}

// CaptureProvider discovers capture devices and opens handles to them.
type CaptureProvider interface {
	// DefaultCaptureDevice reports the current default input. The bool is
	// false when the OS has no default input device.
	DefaultCaptureDevice() (CaptureDevice, bool, error)
	CaptureDevices() ([]CaptureDevice, error)
	OpenCapture(dev CaptureDevice) (CaptureHandle, error)
}

// System is the capability object rooted at the OS audio subsystem.
type System interface {
	PropertyReader
	CaptureProvider
}
