package main

import (
	"path/filepath"
	"testing"

	"automator/internal/config"
)

func TestFlagOverridesStayOutOfConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfgMgr := config.NewManagerAt(path)

	*token, *port = "from-flag", 20002
	t.Cleanup(func() { *token, *port = "", 0 })

	if err := applyFlags(cfgMgr); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}
	if got := cfgMgr.Get().Server; got.Token != "from-flag" || got.Port != 20002 {
		t.Fatalf("Expected flag values for this session, got %+v", got)
	}

	cfgMgr.Update(func(c *config.Config) { c.General.StartOnBoot = true })
	if err := cfgMgr.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := config.NewManagerAt(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := reloaded.Get()
	if got.Server.Token != "" || got.Server.Port != 18181 {
		t.Errorf("Flag values were saved: %+v", got.Server)
	}
	if !got.General.StartOnBoot {
		t.Error("Expected start_on_boot to be saved")
	}
}

func TestApplyFlagsRejectsBadPort(t *testing.T) {
	cfgMgr := config.NewManagerAt(filepath.Join(t.TempDir(), "config.json"))

	*port = 70000
	t.Cleanup(func() { *port = 0 })

	if err := applyFlags(cfgMgr); err == nil {
		t.Error("Expected error for out-of-range -port")
	}
}
