package server

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config contains server configuration values such as port, auth token, and
// the InDesign bridge settings. Zero values for the bridge settings mean the
// bridge defaults apply.
type Config struct {
	Port          string
	Token         string
	Apps          []string
	ScriptDir     string
	ScriptTimeout time.Duration
}

type fileConfig struct {
	Port                 string   `yaml:"port"`
	Token                string   `yaml:"token"`
	Apps                 []string `yaml:"apps"`
	ScriptDir            string   `yaml:"script_dir"`
	ScriptTimeoutSeconds int      `yaml:"script_timeout_seconds"`
}

// LoadConfig builds a Config from an optional .env file, an optional YAML
// config file, and the environment. Environment values win over the file,
// the file over defaults. The YAML path comes from INDESIGN_MCP_CONFIG,
// falling back to config.yaml when one exists in the working directory.
func LoadConfig() (Config, error) {
	// In release deployments configuration comes in as real environment
	// variables; only local development reads a .env file.
	if os.Getenv("INDESIGN_MCP_ENV") != "release" {
		if err := godotenv.Load(); err != nil {
			slog.Warn("No .env file found, relying on environment variables")
		}
	}

	cfg := Config{Port: "3000"}

	path := os.Getenv("INDESIGN_MCP_CONFIG")
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
		if fc.Port != "" {
			cfg.Port = fc.Port
		}
		cfg.Token = fc.Token
		cfg.Apps = fc.Apps
		cfg.ScriptDir = fc.ScriptDir
		if fc.ScriptTimeoutSeconds > 0 {
			cfg.ScriptTimeout = time.Duration(fc.ScriptTimeoutSeconds) * time.Second
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("MCP_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("INDESIGN_APPS"); v != "" {
		cfg.Apps = splitCSV(v)
	}
	if v := os.Getenv("INDESIGN_SCRIPT_DIR"); v != "" {
		cfg.ScriptDir = v
	}
	if v := os.Getenv("INDESIGN_SCRIPT_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.ScriptTimeout = time.Duration(secs) * time.Second
		}
	}

	return cfg, nil
}

func splitCSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
