//go:build !windows

package osutils

import (
	"os"

	"automator/internal/config"
)

// IsAdmin reports whether the process runs as root
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// EnsureFirewallRule returns ErrUnsupported for non-loopback binds
func EnsureFirewallRule(s config.ServerConfig) error {
	if s.IsLoopback() {
		return nil
	}
	return ErrUnsupported
}
