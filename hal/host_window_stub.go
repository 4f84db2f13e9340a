//go:build !cgo

package hal

import "fmt"

func RunWindow(_ HostConfig, _ func(HAL) (App, error)) error {
	return fmt.Errorf("window mode requires cgo (build/run with CGO_ENABLED=1): %w", ErrNotImplemented)
}
