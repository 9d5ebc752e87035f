// Package hal adapts audio libraries to the device.System capability used by
// the resolver.
package hal

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/Danondso/micselect/internal/device"
)

var (
	ErrNoSuchDevice = errors.New("no such audio device")
	ErrNoUID        = errors.New("device has no uid")
	ErrNoTransport  = errors.New("transport type unavailable")
)

// Backend is an audio system that must be closed after use.
type Backend interface {
	device.System
	io.Closer
}

// Backend names accepted by Open.
const (
	BackendPortAudio = "portaudio"
	BackendMalgo     = "malgo"
)

// Open initializes the named backend.
func Open(name string, logger zerolog.Logger) (Backend, error) {
	switch name {
	case "", BackendPortAudio:
		return NewPortAudio(logger)
	case BackendMalgo:
		return NewMalgo(logger)
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", name)
	}
}

var (
	_ Backend = (*PortAudio)(nil)
	_ Backend = (*Malgo)(nil)
)
