package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const ConfigFileName = ".secret_config.js"

// exportPrefix is the assignment the config file carries in front of the
// object literal. The file doubles as a CommonJS module for other tooling.
const exportPrefix = "module.exports"

// AccountEntry holds the credentials for a single configured account.
type AccountEntry struct {
	APIKey string `json:"apiKey"`
	Secret string `json:"secret"`
	Alias  string `json:"alias,omitempty"`
}

// Config is the loaded wallet configuration. It is read-only after startup.
type Config struct {
	Server   string                  `json:"server"`
	Accounts map[string]AccountEntry `json:"accounts"`

	// Path the config was loaded from; not serialized.
	Path string `json:"-"`
}

// Addresses returns the configured account addresses in sorted order.
func (c *Config) Addresses() []string {
	addrs := make([]string, 0, len(c.Accounts))
	for addr := range c.Accounts {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

func LoadConfigFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	cfg, err := LoadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// LoadConfig parses the hand-edited config dialect: an optional
// "module.exports =" assignment followed by a JSON object that may carry
// trailing commas before closing braces or brackets.
func LoadConfig(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	data := stripExportPrefix(raw)
	data = stripTrailingCommas(data)

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("malformed configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural invariants the rest of the application
// relies on. A config that fails here must not be used at all.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("validation failed: missing server endpoint")
	}
	if len(c.Accounts) == 0 {
		return fmt.Errorf("validation failed: configuration must have at least one account")
	}
	for addr, entry := range c.Accounts {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("validation failed: account with empty address")
		}
		if entry.APIKey == "" {
			return fmt.Errorf("validation failed: account %s has no apiKey", addr)
		}
		if entry.Secret == "" {
			return fmt.Errorf("validation failed: account %s has no secret", addr)
		}
	}
	return nil
}

// stripExportPrefix removes the leading "module.exports =" assignment, if
// present, leaving the bare object literal.
func stripExportPrefix(data []byte) []byte {
	trimmed := strings.TrimLeftFunc(string(data), isSpace)
	if !strings.HasPrefix(trimmed, exportPrefix) {
		return data
	}
	rest := strings.TrimLeftFunc(trimmed[len(exportPrefix):], isSpace)
	if !strings.HasPrefix(rest, "=") {
		return data
	}
	return []byte(rest[1:])
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// stripTrailingCommas drops commas whose next significant token closes an
// object or array. The scan tracks string and escape state, so commas inside
// string values are never touched.
func stripTrailingCommas(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false

	for i := 0; i < len(data); i++ {
		c := data[i]

		if inString {
			out = append(out, c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case ',':
			j := i + 1
			for j < len(data) && isSpace(rune(data[j])) {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue // trailing comma, drop it
			}
			out = append(out, c)
		default:
			out = append(out, c)
		}
	}
	return out
}

// SaveConfig writes the configuration back in its canonical textual form:
// the assignment prefix followed by 4-space-indented JSON. The previous file
// is kept as a timestamped backup and the write itself is atomic.
func SaveConfig(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	body, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return err
	}
	data := append([]byte(exportPrefix+" = "), body...)
	data = append(data, '\n')

	if _, err := os.Stat(path); err == nil {
		backupPath := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
		input, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read existing config for backup: %w", err)
		}
		if err := os.WriteFile(backupPath, input, 0600); err != nil {
			return fmt.Errorf("failed to write backup config: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

func RestoreLastBackup(configPath string) error {
	matches, err := filepath.Glob(configPath + ".*.bak")
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no backup files found")
	}
	sort.Strings(matches)
	lastBackup := matches[len(matches)-1]

	data, err := os.ReadFile(lastBackup)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0600)
}
