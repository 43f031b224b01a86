package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// No config file in the test working directory; every value comes
	// from the defaults.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Kitchen.CookDuration != 10*time.Second {
		t.Errorf("cook duration = %v, want 10s", cfg.Kitchen.CookDuration)
	}
	if cfg.Kitchen.PollInterval != 100*time.Millisecond {
		t.Errorf("poll interval = %v, want 100ms", cfg.Kitchen.PollInterval)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}
