package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	RolePrimary = "primary"
	RoleReplica = "replica"
)

type Endpoint struct {
	Region   string `yaml:"region"`
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslMode"`
	Role     string `yaml:"role"`
}

type RunConfig struct {
	DurationSeconds int `yaml:"durationSeconds"`
	IntervalSeconds int `yaml:"intervalSeconds"`
	GraceSeconds    int `yaml:"graceSeconds"`
}

type Config struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	Run       RunConfig  `yaml:"run"`
	NATSURL   string     `yaml:"natsUrl"`
	AdminPort string     `yaml:"adminPort"`
}

// Default mirrors the original three-region deployment: one local primary
// and two replicas on adjacent ports.
func Default() Config {
	return Config{
		Endpoints: []Endpoint{
			{Region: "us-west", Type: "postgres", Host: "localhost", Port: 5441, User: "postgres", Password: "postgres", Database: "replication_db", SSLMode: "disable", Role: RolePrimary},
			{Region: "us-east", Type: "postgres", Host: "localhost", Port: 5442, User: "postgres", Password: "postgres", Database: "replication_db", SSLMode: "disable", Role: RoleReplica},
			{Region: "eu-west", Type: "postgres", Host: "localhost", Port: 5443, User: "postgres", Password: "postgres", Database: "replication_db", SSLMode: "disable", Role: RoleReplica},
		},
		Run: RunConfig{
			DurationSeconds: 30,
			IntervalSeconds: 5,
			GraceSeconds:    3,
		},
		AdminPort: "8091",
	}
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := Config{Run: Default().Run, AdminPort: Default().AdminPort}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return errors.New("no endpoints configured")
	}
	primaries := 0
	replicas := 0
	seen := map[string]struct{}{}
	for _, ep := range c.Endpoints {
		if strings.TrimSpace(ep.Region) == "" {
			return errors.New("endpoint region is required")
		}
		if _, ok := seen[ep.Region]; ok {
			return fmt.Errorf("duplicate endpoint region %q", ep.Region)
		}
		seen[ep.Region] = struct{}{}
		switch strings.ToLower(ep.Type) {
		case "postgres", "postgresql", "mysql", "mssql", "sqlserver":
		default:
			return fmt.Errorf("endpoint %s: unsupported database type %q", ep.Region, ep.Type)
		}
		switch ep.Role {
		case RolePrimary:
			primaries++
		case RoleReplica:
			replicas++
		default:
			return fmt.Errorf("endpoint %s: invalid role %q", ep.Region, ep.Role)
		}
	}
	if primaries != 1 {
		return fmt.Errorf("exactly one primary endpoint required, got %d", primaries)
	}
	if replicas == 0 {
		return errors.New("at least one replica endpoint required")
	}
	if c.Run.IntervalSeconds <= 0 {
		return errors.New("run interval must be positive")
	}
	if c.Run.GraceSeconds < 0 {
		return errors.New("run grace period must not be negative")
	}
	return nil
}

func (c Config) Primary() Endpoint {
	for _, ep := range c.Endpoints {
		if ep.Role == RolePrimary {
			return ep
		}
	}
	return Endpoint{}
}

func (c Config) Replicas() []Endpoint {
	results := []Endpoint{}
	for _, ep := range c.Endpoints {
		if ep.Role == RoleReplica {
			results = append(results, ep)
		}
	}
	return results
}
