package config

import "testing"

func TestDefaultHasExpectedPort(t *testing.T) {
	cfg := Default()
	if cfg.Port != 5000 {
		t.Fatalf("Port = %d, want 5000", cfg.Port)
	}
	if !cfg.Mining.AutoBroadcast {
		t.Fatal("expected AutoBroadcast to default true")
	}
	if cfg.Mining.Enabled {
		t.Fatal("expected Mining.Enabled to default false")
	}
}

func TestApplyFlagsOverridesDefaults(t *testing.T) {
	cfg := Default()
	f := &Flags{
		Port:         6000,
		ID:           "5001",
		Seeds:        "localhost:5001,localhost:5002",
		SetMine:      true,
		Mine:         true,
		SetBroadcast: true,
		NoBroadcast:  true,
		LogLevel:     "debug",
	}
	ApplyFlags(cfg, f)

	if cfg.Port != 6000 {
		t.Fatalf("Port = %d, want 6000", cfg.Port)
	}
	if cfg.ID != "5001" {
		t.Fatalf("ID = %q, want 5001", cfg.ID)
	}
	if len(cfg.Seeds) != 2 {
		t.Fatalf("Seeds = %v, want 2 entries", cfg.Seeds)
	}
	if !cfg.Mining.Enabled {
		t.Fatal("expected Mining.Enabled true")
	}
	if cfg.Mining.AutoBroadcast {
		t.Fatal("expected AutoBroadcast false after --no-broadcast")
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestParseStringListTrimsAndDropsEmpty(t *testing.T) {
	got := parseStringList(" a, b ,, c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
