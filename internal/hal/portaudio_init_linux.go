//go:build linux

package hal

import (
	"os"
	"syscall"

	"github.com/gordonklaus/portaudio"
)

// initPortAudio silences the ALSA and JACK probing noise PortAudio prints
// while it scans host APIs by pointing stderr at /dev/null for the call.
func initPortAudio() error {
	stderrFd := int(os.Stderr.Fd()) //nolint:gosec // fd fits in int on all supported platforms
	savedStderr, err := syscall.Dup(stderrFd)
	if err != nil {
		return portaudio.Initialize()
	}
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		_ = syscall.Close(savedStderr)
		return portaudio.Initialize()
	}
	_ = syscall.Dup2(int(devNull.Fd()), stderrFd)
	_ = devNull.Close()

	initErr := portaudio.Initialize()

	_ = syscall.Dup2(savedStderr, stderrFd)
	_ = syscall.Close(savedStderr)

	return initErr
}
