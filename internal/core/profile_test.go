package core

import (
	"testing"
)

func TestLoadProfile_Dev(t *testing.T) {
	p, err := LoadProfile("dev")
	if err != nil {
		t.Fatalf("LoadProfile(dev) error: %v", err)
	}
	if p.Name != "dev" {
		t.Errorf("Name = %q, want %q", p.Name, "dev")
	}
	if !p.DemoFallback {
		t.Error("DemoFallback = false, want true")
	}
	if !p.ExposeDebug {
		t.Error("ExposeDebug = false, want true")
	}
	if p.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", p.LogLevel, "debug")
	}
	if p.UpstreamTimeoutSeconds != 30 {
		t.Errorf("UpstreamTimeoutSeconds = %d, want 30", p.UpstreamTimeoutSeconds)
	}
}

func TestLoadProfile_Staging(t *testing.T) {
	p, err := LoadProfile("staging")
	if err != nil {
		t.Fatalf("LoadProfile(staging) error: %v", err)
	}
	if p.Name != "staging" {
		t.Errorf("Name = %q, want %q", p.Name, "staging")
	}
	if !p.DemoFallback {
		t.Error("DemoFallback = false, want true")
	}
	if p.WalletClientCacheSize != 256 {
		t.Errorf("WalletClientCacheSize = %d, want 256", p.WalletClientCacheSize)
	}
}

func TestLoadProfile_Prod(t *testing.T) {
	p, err := LoadProfile("prod")
	if err != nil {
		t.Fatalf("LoadProfile(prod) error: %v", err)
	}
	if p.Name != "prod" {
		t.Errorf("Name = %q, want %q", p.Name, "prod")
	}
	if p.DemoFallback {
		t.Error("DemoFallback = true, want false")
	}
	if p.ExposeDebug {
		t.Error("ExposeDebug = true, want false")
	}
	if p.UpstreamTimeoutSeconds != 15 {
		t.Errorf("UpstreamTimeoutSeconds = %d, want 15", p.UpstreamTimeoutSeconds)
	}
}

func TestLoadProfile_EmptyDefaultsToDev(t *testing.T) {
	p, err := LoadProfile("")
	if err != nil {
		t.Fatalf("LoadProfile(\"\") error: %v", err)
	}
	if p.Name != "dev" {
		t.Errorf("Name = %q, want %q", p.Name, "dev")
	}
}

func TestLoadProfile_CaseInsensitive(t *testing.T) {
	p, err := LoadProfile("PROD")
	if err != nil {
		t.Fatalf("LoadProfile(PROD) error: %v", err)
	}
	if p.Name != "prod" {
		t.Errorf("Name = %q, want %q", p.Name, "prod")
	}
}

func TestLoadProfile_UnknownReturnsError(t *testing.T) {
	_, err := LoadProfile("unknown")
	if err == nil {
		t.Fatal("LoadProfile(unknown) should return error")
	}
}

func TestLoadProfile_ReturnsCopy(t *testing.T) {
	p1, _ := LoadProfile("dev")
	p2, _ := LoadProfile("dev")
	p1.UpstreamTimeoutSeconds = 9999
	if p2.UpstreamTimeoutSeconds == 9999 {
		t.Error("LoadProfile should return independent copies")
	}
}
