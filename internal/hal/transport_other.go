//go:build !linux && !darwin

package hal

func readTransports() (transportTable, error) {
	return nil, ErrNoTransport
}
