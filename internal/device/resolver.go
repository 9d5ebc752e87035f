package device

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Options tunes which devices a Resolver offers.
type Options struct {
	Filter TransportFilter
	Dedupe DedupePolicy
}

// Resolver lists input devices and resolves them to capture handles. It keeps
// no state between calls; every operation re-queries the System.
type Resolver struct {
	sys  System
	opts Options
	log  zerolog.Logger
}

// NewResolver creates a Resolver over sys.
func NewResolver(sys System, opts Options, logger zerolog.Logger) *Resolver {
	return &Resolver{
		sys:  sys,
		opts: opts,
		log:  logger.With().Str("component", "resolver").Logger(),
	}
}

// ListInputs returns the usable input devices in OS enumeration order. It
// never fails: an unavailable device list yields an empty slice and devices
// with unreadable properties are skipped.
func (r *Resolver) ListInputs() []InputDevice {
	ids, err := r.sys.DeviceList()
	if err != nil {
		r.log.Warn().Err(fmt.Errorf("%w: %w", ErrEnumerationUnavailable, err)).Msg("device list")
		return []InputDevice{}
	}

	out := make([]InputDevice, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		dev, err := r.inputDevice(id)
		if err != nil {
			r.log.Debug().Err(err).Stringer("native_id", id).Msg("skipping device")
			continue
		}
		if dev == nil {
			continue
		}

		key := dev.Label
		if r.opts.Dedupe == DedupeByID {
			key = dev.ID
		}
		if _, ok := seen[key]; ok {
			r.log.Debug().Str("id", dev.ID).Str("label", dev.Label).Msg("skipping duplicate device")
			continue
		}
		seen[key] = struct{}{}
		out = append(out, *dev)
	}
	return out
}

// inputDevice builds the listing entry for id. A nil device with a nil error
// means the device is valid but not an accepted input.
func (r *Resolver) inputDevice(id NativeID) (*InputDevice, error) {
	channels, err := r.sys.InputChannelCount(id)
	if err != nil {
		return nil, fmt.Errorf("%w: input channels: %w", ErrDeviceQueryIncomplete, err)
	}
	if channels <= 0 {
		return nil, nil
	}

	if r.opts.Filter != FilterAny {
		transport, err := r.sys.TransportType(id)
		if err != nil {
			return nil, fmt.Errorf("%w: transport: %w", ErrDeviceQueryIncomplete, err)
		}
		if !r.opts.Filter.Allows(transport) {
			r.log.Debug().Stringer("native_id", id).Stringer("transport", transport).Msg("transport filtered")
			return nil, nil
		}
	}

	uid, err := r.sys.UID(id)
	if err != nil || uid == "" {
		uid = id.String()
	}

	name, err := r.sys.Name(id)
	if err != nil {
		return nil, fmt.Errorf("%w: name: %w", ErrDeviceQueryIncomplete, err)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrDeviceQueryIncomplete)
	}

	return &InputDevice{ID: uid, Label: name}, nil
}

// Resolve opens a capture handle for requested, or for the default input
// when requested is nil. A nil handle with a nil error means no matching
// device exists. An error is returned only when the OS rejects opening a
// device it reports; it wraps ErrHandleCreation.
func (r *Resolver) Resolve(requested *InputDevice) (CaptureHandle, error) {
	if requested == nil {
		dev, ok, err := r.sys.DefaultCaptureDevice()
		if err != nil {
			r.log.Warn().Err(err).Msg("default capture device")
			return nil, nil
		}
		if !ok {
			r.log.Debug().Msg("no default capture device")
			return nil, nil
		}
		return r.open(dev)
	}

	devices, err := r.sys.CaptureDevices()
	if err != nil {
		r.log.Warn().Err(err).Str("id", requested.ID).Msg("capture discovery")
		return nil, nil
	}
	for _, dev := range devices {
		if dev.UniqueID == requested.ID {
			return r.open(dev)
		}
	}

	r.log.Debug().Err(ErrDeviceNotFound).Str("id", requested.ID).Msg("resolve")
	return nil, nil
}

// ResolveID resolves a stored identifier. An empty id selects the default
// input; the decimal native form is translated to the device's UID first so
// both identifier conventions reach the same device.
func (r *Resolver) ResolveID(id string) (CaptureHandle, error) {
	if id == "" {
		return r.Resolve(nil)
	}
	if native, ok := r.IDToDeviceHandle(id); ok && native.String() == id {
		if uid, err := r.sys.UID(native); err == nil && uid != "" {
			r.log.Debug().Str("id", id).Str("uid", uid).Msg("numeric id mapped to uid")
			id = uid
		}
	}
	return r.Resolve(&InputDevice{ID: id})
}

func (r *Resolver) open(dev CaptureDevice) (CaptureHandle, error) {
	h, err := r.sys.OpenCapture(dev)
	if err != nil {
		return nil, &HandleError{Device: dev, Err: err}
	}
	r.log.Debug().Str("id", dev.UniqueID).Str("name", dev.Name).Msg("capture handle opened")
	return h, nil
}

// IDToDeviceHandle maps a UID, or the decimal form of a native ID, to the
// native ID of a current device.
func (r *Resolver) IDToDeviceHandle(uid string) (NativeID, bool) {
	ids, err := r.sys.DeviceList()
	if err != nil {
		r.log.Warn().Err(fmt.Errorf("%w: %w", ErrEnumerationUnavailable, err)).Msg("device list")
		return 0, false
	}

	for _, id := range ids {
		// Older callers pass the numeric ID instead of the UID.
		if id.String() == uid {
			return id, true
		}
		devUID, err := r.sys.UID(id)
		if err == nil && devUID == uid {
			return id, true
		}
	}
	return 0, false
}
