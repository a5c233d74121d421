package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProviderFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coinbase.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadProviderFile(t *testing.T) {
	path := writeProviderFile(t, `{
		"enabled": true,
		"secret": {"client": "api-key-123", "hook": "hook-secret-456"},
		"methods": {
			"oneTime": {
				"btc": {"enabled": true, "minimum": 100, "maximum": 500000, "fee": 0.5, "displayName": "Bitcoin"},
				"eth": {"enabled": false, "minimum": 50, "maximum": 100000, "fee": 0.25}
			}
		}
	}`)

	pc, err := LoadProviderFile(path)
	if err != nil {
		t.Fatalf("LoadProviderFile: %v", err)
	}
	if !pc.Enabled {
		t.Error("enabled = false, want true")
	}
	if pc.APIKey != "api-key-123" {
		t.Errorf("api key = %q", pc.APIKey)
	}
	if pc.WebhookSecret != "hook-secret-456" {
		t.Errorf("webhook secret = %q", pc.WebhookSecret)
	}
	if len(pc.Methods) != 2 {
		t.Fatalf("methods = %d, want 2", len(pc.Methods))
	}
	btc := pc.Methods["btc"]
	if !btc.Enabled || btc.Minimum != 100 || btc.Maximum != 500000 || btc.Fee != 0.5 {
		t.Errorf("btc method = %+v", btc)
	}
	if btc.DisplayName != "Bitcoin" {
		t.Errorf("btc display name = %q", btc.DisplayName)
	}
	if pc.Methods["eth"].Enabled {
		t.Error("eth method should be disabled")
	}
}

func TestLoadProviderFileMissing(t *testing.T) {
	if _, err := LoadProviderFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMergeProviderEnvSecretsWin(t *testing.T) {
	env := ProviderCfg{APIKey: "from-env", WebhookSecret: ""}
	file := ProviderCfg{
		Enabled:       true,
		APIKey:        "from-file",
		WebhookSecret: "file-hook",
		Methods:       map[string]MethodCfg{"btc": {Enabled: true}},
	}

	out := mergeProvider(env, file)
	if out.APIKey != "from-env" {
		t.Errorf("api key = %q, want env value to win", out.APIKey)
	}
	if out.WebhookSecret != "file-hook" {
		t.Errorf("webhook secret = %q, want file value to fill the gap", out.WebhookSecret)
	}
	if !out.Enabled || len(out.Methods) != 1 {
		t.Errorf("merged cfg = %+v", out)
	}
}
