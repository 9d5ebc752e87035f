//go:build linux

package hal

import (
	"fmt"
	"os/exec"
)

// readTransports reads source transports from PulseAudio or PipeWire.
func readTransports() (transportTable, error) {
	out, err := exec.Command("pactl", "list", "sources").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sources: %w", err)
	}
	return parsePactlSources(string(out)), nil
}
