//go:build !linux

package hal

import "github.com/gordonklaus/portaudio"

func initPortAudio() error {
	return portaudio.Initialize()
}
