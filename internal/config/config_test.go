package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Primary().Region != "us-west" {
		t.Fatalf("expected us-west primary, got %s", cfg.Primary().Region)
	}
	if len(cfg.Replicas()) != 2 {
		t.Fatalf("expected 2 replicas, got %d", len(cfg.Replicas()))
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	data := `
endpoints:
  - region: us-west
    type: postgres
    host: localhost
    port: 5441
    user: postgres
    password: postgres
    database: replication_db
    role: primary
  - region: ap-south
    type: mysql
    host: localhost
    port: 3306
    user: root
    password: root
    database: replication_db
    role: replica
natsUrl: nats://localhost:4222
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Primary().Region != "us-west" {
		t.Fatalf("unexpected primary: %s", cfg.Primary().Region)
	}
	if len(cfg.Replicas()) != 1 || cfg.Replicas()[0].Type != "mysql" {
		t.Fatalf("unexpected replicas: %+v", cfg.Replicas())
	}
	if cfg.NATSURL != "nats://localhost:4222" {
		t.Fatalf("unexpected nats url: %s", cfg.NATSURL)
	}
	if cfg.Run.IntervalSeconds != 5 {
		t.Fatalf("expected default run interval, got %d", cfg.Run.IntervalSeconds)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	base := Default()

	cfg := base
	cfg.Endpoints = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for empty endpoints")
	}

	cfg = base
	cfg.Endpoints = append([]Endpoint{}, base.Endpoints...)
	cfg.Endpoints[1].Role = RolePrimary
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for two primaries")
	}

	cfg = base
	cfg.Endpoints = []Endpoint{base.Endpoints[0]}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing replicas")
	}

	cfg = base
	cfg.Endpoints = append([]Endpoint{}, base.Endpoints...)
	cfg.Endpoints[1].Region = "us-west"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for duplicate region")
	}

	cfg = base
	cfg.Endpoints = append([]Endpoint{}, base.Endpoints...)
	cfg.Endpoints[2].Type = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported type")
	}

	cfg = base
	cfg.Endpoints = append([]Endpoint{}, base.Endpoints...)
	cfg.Endpoints[2].Role = "standby"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for invalid role")
	}

	cfg = base
	cfg.Run.IntervalSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
