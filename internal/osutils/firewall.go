package osutils

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"automator/internal/config"
)

// RuleName names the inbound rule opened for a non-loopback command server
const RuleName = "Automator Input Bridge"

var (
	// ErrUnsupported is returned where firewall rules are not managed
	ErrUnsupported = errors.New("firewall rules are only managed on windows")

	// ErrElevationRequested is returned when the rule change was handed to a UAC prompt
	ErrElevationRequested = errors.New("firewall change sent to an elevated prompt")
)

// firewallRule is the netsh rule that admits the command server
type firewallRule struct {
	name    string
	port    int
	localIP string
}

func ruleFor(s config.ServerConfig) firewallRule {
	ip := s.BindAddr
	if parsed := net.ParseIP(ip); ip == "" || (parsed != nil && parsed.IsUnspecified()) {
		ip = "any"
	}
	return firewallRule{name: RuleName, port: s.Port, localIP: ip}
}

func (r firewallRule) showArgs() []string {
	return []string{"advfirewall", "firewall", "show", "rule", "name=" + r.name, "verbose"}
}

func (r firewallRule) deleteArgs() []string {
	return []string{"advfirewall", "firewall", "delete", "rule", "name=" + r.name}
}

func (r firewallRule) addArgs() []string {
	return []string{
		"advfirewall", "firewall", "add", "rule",
		"name=" + r.name,
		"dir=in",
		"action=allow",
		"protocol=TCP",
		"localport=" + strconv.Itoa(r.port),
		"localip=" + r.localIP,
		"profile=private",
	}
}

// matches reports whether netsh show output describes this exact rule
func (r firewallRule) matches(output string) bool {
	f := parseRuleFields(output)
	if f["Rule Name"] != r.name || f["Direction"] != "In" || f["Action"] != "Allow" || f["Protocol"] != "TCP" {
		return false
	}
	if f["LocalPort"] != strconv.Itoa(r.port) {
		return false
	}
	ip := f["LocalIP"]
	if r.localIP == "any" {
		return strings.EqualFold(ip, "any")
	}
	return ip == r.localIP || strings.HasPrefix(ip, r.localIP+"/")
}

// parseRuleFields reads the "Key:   Value" lines of the first rule netsh prints
func parseRuleFields(output string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(value)
		}
	}
	return fields
}

// commandLine joins netsh arguments for a shell, quoting the ones with spaces
func commandLine(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
