//go:build windows

package osutils

import (
	"fmt"
	"log"
	"os/exec"
	"strings"

	"automator/internal/config"

	"golang.org/x/sys/windows"
)

// IsAdmin reports whether the process token is elevated.
// Injected input does not reach elevated windows unless this is true.
func IsAdmin() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// EnsureFirewallRule admits inbound TCP to the command server on private
// networks. Loopback binds need no rule. Without elevation the change is
// handed to a UAC prompt and ErrElevationRequested is returned.
func EnsureFirewallRule(s config.ServerConfig) error {
	if s.IsLoopback() {
		return nil
	}
	rule := ruleFor(s)

	out, err := exec.Command("netsh", rule.showArgs()...).CombinedOutput()
	if err == nil && rule.matches(string(out)) {
		return nil
	}

	if !IsAdmin() {
		return elevate(rule)
	}

	// Fails when no earlier rule exists
	_ = exec.Command("netsh", rule.deleteArgs()...).Run()
	if out, err := exec.Command("netsh", rule.addArgs()...).CombinedOutput(); err != nil {
		return fmt.Errorf("add firewall rule %q: %w (%s)", rule.name, err, strings.TrimSpace(string(out)))
	}
	log.Printf("Firewall: Rule '%s' admits TCP %s:%d", rule.name, rule.localIP, rule.port)
	return nil
}

func elevate(rule firewallRule) error {
	script := "/C netsh " + commandLine(rule.deleteArgs()) + " & netsh " + commandLine(rule.addArgs())

	verb, _ := windows.UTF16PtrFromString("runas")
	exe, _ := windows.UTF16PtrFromString("cmd.exe")
	params, _ := windows.UTF16PtrFromString(script)
	if err := windows.ShellExecute(0, verb, exe, params, nil, windows.SW_HIDE); err != nil {
		return fmt.Errorf("request elevation for firewall rule %q: %w", rule.name, err)
	}
	return ErrElevationRequested
}
