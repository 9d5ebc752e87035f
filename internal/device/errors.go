package device

import (
	"errors"
	"fmt"
)

var (
	// ErrEnumerationUnavailable means the OS refused to report its device
	// list. ListInputs degrades it to an empty listing.
	ErrEnumerationUnavailable = errors.New("audio device enumeration unavailable")

	// ErrDeviceQueryIncomplete means one property of a single device could
	// not be read. The device is left out of the listing.
	ErrDeviceQueryIncomplete = errors.New("audio device query incomplete")

	// ErrDeviceNotFound means a requested id matched no current device.
	// Resolve reports it as a nil handle, never as an error.
	ErrDeviceNotFound = errors.New("audio device not found")

	// ErrHandleCreation means the OS rejected opening a capture handle for a
	// device it otherwise reports.
	ErrHandleCreation = errors.New("capture handle creation failed")
)

// HandleError is returned by Resolve when opening a capture handle fails.
type HandleError struct {
	Device CaptureDevice
	Err    error
}

func (e *HandleError) Error() string {
	return fmt.Sprintf("open capture %q (%s): %v", e.Device.Name, e.Device.UniqueID, e.Err)
}

// Unwrap exposes both the backend error and ErrHandleCreation.
func (e *HandleError) Unwrap() []error {
	return []error{ErrHandleCreation, e.Err}
}
