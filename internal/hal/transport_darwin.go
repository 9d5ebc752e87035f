//go:build darwin

package hal

import (
	"fmt"
	"os/exec"
)

// readTransports reads CoreAudio device transports from system_profiler.
func readTransports() (transportTable, error) {
	out, err := exec.Command("system_profiler", "SPAudioDataType", "-json").Output()
	if err != nil {
		return nil, fmt.Errorf("system_profiler: %w", err)
	}
	return parseSystemProfiler(out)
}
