package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Statbank.Table != "SMIT4" || cfg.Server.Port != "8050" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Statbank.Timeout != 30*time.Second {
		t.Fatalf("timeout = %s", cfg.Statbank.Timeout)
	}
}

func TestLoadConfig_YAMLOverridesDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	p := writeConfig(t, `
server:
  port: "9000"
statbank:
  timeout: "5s"
dashboard:
  default_regions: ["101", "147"]
`)
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Statbank.Timeout != 5*time.Second {
		t.Errorf("timeout = %s", cfg.Statbank.Timeout)
	}
	if len(cfg.Dashboard.DefaultRegions) != 2 || cfg.Dashboard.DefaultRegions[1] != "147" {
		t.Errorf("regions = %v", cfg.Dashboard.DefaultRegions)
	}
	// untouched keys keep their defaults
	if cfg.Statbank.RegionVariable != "KOMK" {
		t.Errorf("region variable = %q", cfg.Statbank.RegionVariable)
	}
}

func TestLoadConfig_ShippedFile(t *testing.T) {
	p, err := filepath.Abs("config.yaml")
	if err != nil {
		t.Fatal(err)
	}
	chdir(t, t.TempDir())
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig(%s): %v", p, err)
	}
	if cfg.Statbank.Timeout != 30*time.Second {
		t.Errorf("timeout = %s", cfg.Statbank.Timeout)
	}
	if cfg.Statbank.TimeVariable != "Tid" || cfg.Dashboard.DefaultScaling != "50" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Database.Enabled {
		t.Errorf("database should be disabled in the shipped config")
	}
}

func TestLoadConfig_EnvOverridesYAML(t *testing.T) {
	chdir(t, t.TempDir())
	p := writeConfig(t, "server:\n  port: \"9000\"\n")
	t.Setenv("COVIDASH_PORT", "9100")
	t.Setenv("COVIDASH_STATBANK_URL", "http://localhost:1234/v1")
	t.Setenv("COVIDASH_DB_ENABLED", "true")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9100" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Statbank.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("base url = %q", cfg.Statbank.BaseURL)
	}
	if !cfg.Database.Enabled {
		t.Errorf("database should be enabled")
	}
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("COVIDASH_DB_NAME=fromdotenv\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set, so make sure
	// the key is absent and cleaned up afterwards.
	t.Setenv("COVIDASH_DB_NAME", "")
	os.Unsetenv("COVIDASH_DB_NAME")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.DBName != "fromdotenv" {
		t.Fatalf("dbname = %q", cfg.Database.DBName)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	chdir(t, t.TempDir())
	cases := map[string]string{
		"bad timeout": "statbank:\n  timeout: \"soon\"\n",
		"bad start":   "dashboard:\n  default_start: \"03/01/2021\"\n",
		"no table":    "statbank:\n  table: \"\"\n",
		"bad yaml":    "server: [",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

// chdir changes the working directory for the duration of the test
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	})
}
