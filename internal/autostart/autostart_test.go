package autostart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
)

func TestPlistTemplate(t *testing.T) {
	tmpl, err := template.New("plist").Parse(macLaunchAgentPlist)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var buf bytes.Buffer
	data := struct{ Label, ExecutablePath string }{agentLabel, "/Applications/Automator.app/Contents/MacOS/automator"}
	if err := tmpl.Execute(&buf, data); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<string>"+agentLabel+"</string>") {
		t.Error("Expected label in plist")
	}
	if !strings.Contains(out, "<string>/Applications/Automator.app/Contents/MacOS/automator</string>") {
		t.Error("Expected executable path in plist")
	}
}

func TestLinuxDesktopEntry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if isEnabledLinux() {
		t.Fatal("Expected auto-start disabled in empty config dir")
	}
	if err := enableLinux("/usr/local/bin/automator"); err != nil {
		t.Fatalf("enableLinux failed: %v", err)
	}
	if !isEnabledLinux() {
		t.Error("Expected auto-start enabled")
	}

	data, err := os.ReadFile(filepath.Join(dir, "autostart", agentLabel+".desktop"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Exec=/usr/local/bin/automator") {
		t.Errorf("Expected Exec line, got:\n%s", data)
	}

	if err := disableLinux(); err != nil {
		t.Fatalf("disableLinux failed: %v", err)
	}
	if isEnabledLinux() {
		t.Error("Expected auto-start disabled after disableLinux")
	}
	// Removing twice is fine
	if err := disableLinux(); err != nil {
		t.Errorf("Second disableLinux failed: %v", err)
	}
}
