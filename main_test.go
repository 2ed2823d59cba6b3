package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const checkTestConfig = `module.exports = {
    "server": "http://localhost:3000",
    "accounts": {
        "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh": {
            "apiKey": "test-key",
            "secret": "shhh",
        },
    },
}`

func runCheck(t *testing.T, path string) (string, error) {
	t.Helper()
	checkOnly = true
	defer func() { checkOnly = false }()

	var out bytes.Buffer
	cmd := rootCmd
	cmd.SetOut(&out)
	err := run(cmd, []string{path})
	return out.String(), err
}

func TestCheckValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".secret_config.js")
	if err := os.WriteFile(path, []byte(checkTestConfig), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCheck(t, path)
	if err != nil {
		t.Fatalf("expected valid config, got: %v", err)
	}
	if !strings.Contains(out, "1 account(s)") {
		t.Errorf("expected account count in output, got %q", out)
	}
	if !strings.Contains(out, "http://localhost:3000") {
		t.Errorf("expected server in output, got %q", out)
	}
}

func TestCheckMissingConfig(t *testing.T) {
	_, err := runCheck(t, filepath.Join(t.TempDir(), "nope.js"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestCheckInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".secret_config.js")
	bad := `module.exports = {"server": "", "accounts": {}}`
	if err := os.WriteFile(path, []byte(bad), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := runCheck(t, path)
	if err == nil {
		t.Fatal("expected validation error for empty server and accounts")
	}
}
