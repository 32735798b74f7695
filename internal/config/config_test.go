package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Fatalf("default port %q, want 8000", cfg.Port)
	}
	if cfg.ReminderLead != 3*time.Hour {
		t.Fatalf("default reminder lead %v, want 3h", cfg.ReminderLead)
	}
	if cfg.JWTExpiration != 24*time.Hour {
		t.Fatalf("default jwt expiration %v, want 24h", cfg.JWTExpiration)
	}
}

func TestLoadReminderLeadFromEnv(t *testing.T) {
	t.Setenv("REMINDER_LEAD_HOURS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReminderLead != 6*time.Hour {
		t.Fatalf("reminder lead %v, want 6h", cfg.ReminderLead)
	}
}

func TestLoadInvalidReminderLeadFallsBack(t *testing.T) {
	t.Setenv("REMINDER_LEAD_HOURS", "garbage")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReminderLead != 3*time.Hour {
		t.Fatalf("reminder lead %v, want fallback 3h", cfg.ReminderLead)
	}
}
