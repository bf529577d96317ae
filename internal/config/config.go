// Package config assembles runtime settings from warsync.yml and the
// environment. Credentials come from the environment only; the file carries
// the non-secret settings a team checks into the repo.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names. The file can supply everything except the two
// API tokens and the username.
const (
	EnvTogglToken     = "TOGGL_API_TOKEN"
	EnvTogglWorkspace = "TOGGL_WORKSPACE_ID"
	EnvUsername       = "CONFLUENCE_USERNAME"
	EnvAPIToken       = "CONFLUENCE_API_TOKEN"
	EnvBaseURL        = "CONFLUENCE_BASE_URL"
	EnvPageID         = "CONFLUENCE_PAGE_ID"
	EnvDisplayName    = "CONFLUENCE_DISPLAY_NAME"
)

// FileConfig holds the settings loadable from warsync.yml.
type FileConfig struct {
	WorkspaceID string `yaml:"workspaceId,omitempty"`
	BaseURL     string `yaml:"baseUrl,omitempty"`
	PageID      string `yaml:"pageId,omitempty"`
	DisplayName string `yaml:"displayName,omitempty"`
	Verbose     bool   `yaml:"verbose,omitempty"`
}

// Config is the fully resolved runtime configuration.
type Config struct {
	TogglAPIToken    string
	TogglWorkspaceID string

	ConfluenceUsername string
	ConfluenceAPIToken string
	ConfluenceBaseURL  string
	ConfluencePageID   string

	// DisplayName is the heading under which reports are filed.
	DisplayName string

	Verbose bool
}

// MissingVarsError reports required settings that were resolvable from
// neither the environment nor the config file.
type MissingVarsError struct {
	Vars []string
}

func (e *MissingVarsError) Error() string {
	return "config: missing required settings: " + strings.Join(e.Vars, ", ")
}

// LoadFile reads warsync.yml or warsync.yaml from dir. A missing file is not
// an error; a malformed one is.
func LoadFile(dir string) (*FileConfig, error) {
	for _, name := range []string{"warsync.yml", "warsync.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg FileConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &FileConfig{}, nil
}

// Load resolves the full configuration: file values first, environment
// overriding. Returns a MissingVarsError naming every absent required
// setting by its environment variable, so one run surfaces them all.
func Load(dir string) (*Config, error) {
	file, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TogglAPIToken:      os.Getenv(EnvTogglToken),
		TogglWorkspaceID:   resolve(EnvTogglWorkspace, file.WorkspaceID),
		ConfluenceUsername: os.Getenv(EnvUsername),
		ConfluenceAPIToken: os.Getenv(EnvAPIToken),
		ConfluenceBaseURL:  resolve(EnvBaseURL, file.BaseURL),
		ConfluencePageID:   resolve(EnvPageID, file.PageID),
		DisplayName:        resolve(EnvDisplayName, file.DisplayName),
		Verbose:            file.Verbose,
	}

	var missing []string
	for _, req := range []struct {
		env string
		val string
	}{
		{EnvTogglToken, cfg.TogglAPIToken},
		{EnvTogglWorkspace, cfg.TogglWorkspaceID},
		{EnvUsername, cfg.ConfluenceUsername},
		{EnvAPIToken, cfg.ConfluenceAPIToken},
		{EnvBaseURL, cfg.ConfluenceBaseURL},
		{EnvPageID, cfg.ConfluencePageID},
		{EnvDisplayName, cfg.DisplayName},
	} {
		if req.val == "" {
			missing = append(missing, req.env)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingVarsError{Vars: missing}
	}

	return cfg, nil
}

func resolve(env, fileVal string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return fileVal
}
