package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Timeular public API root.
const DefaultBaseURL = "https://api.timeular.com/api/v3"

const configFileName = "timeglance.yml"

var (
	ErrMissingCredentials = errors.New("TIMEULAR_API_KEY and TIMEULAR_API_SECRET are required")
	ErrMissingVault       = errors.New("vault root is required")
)

// Config holds everything the tool needs for one run. It is built once at
// startup and passed by parameter; nothing reads it from globals.
type Config struct {
	API struct {
		BaseURL string `yaml:"base_url"`
		Key     string `yaml:"-"`
		Secret  string `yaml:"-"`
	} `yaml:"api"`
	Note struct {
		Heading  string `yaml:"heading"`
		DailyDir string `yaml:"daily_dir"`
	} `yaml:"note"`
	Image struct {
		Dir string `yaml:"dir"`
	} `yaml:"image"`
	VaultRoot string `yaml:"-"`
}

// Default returns a config with the stock API endpoint and vault layout.
func Default(vaultRoot string) *Config {
	c := &Config{VaultRoot: vaultRoot}
	c.API.BaseURL = DefaultBaseURL
	c.Note.Heading = "# Timeular"
	c.Note.DailyDir = "Daily Notes"
	c.Image.Dir = filepath.Join("Media", "Images")
	return c
}

// Load returns the default config for vaultRoot, overlaid by timeglance.yml
// in the vault root when that file exists.
func Load(vaultRoot string) (*Config, error) {
	cfg := Default(vaultRoot)
	data, err := os.ReadFile(filepath.Join(vaultRoot, configFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := cfg.applyYAML(data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configFileName, err)
	}
	return cfg, nil
}

// FromYAML parses a config overlay on top of defaults. Unknown keys are
// rejected.
func FromYAML(vaultRoot string, data []byte) (*Config, error) {
	cfg := Default(vaultRoot)
	if err := cfg.applyYAML(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return err
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	return nil
}

// Validate ensures the config is complete enough to run.
func (c *Config) Validate() error {
	if c.API.Key == "" || c.API.Secret == "" {
		return ErrMissingCredentials
	}
	if c.VaultRoot == "" {
		return ErrMissingVault
	}
	if c.Note.Heading == "" {
		return fmt.Errorf("note.heading must not be empty")
	}
	return nil
}

// ImageFileName is the report image name for a date, shared by the renderer
// output path and the note link.
func ImageFileName(date string) string {
	return date + "-timeular.png"
}

// ImagePath is the deterministic output path for a date's report image.
func (c *Config) ImagePath(date string) string {
	return filepath.Join(c.VaultRoot, c.Image.Dir, ImageFileName(date))
}

// DefaultVaultRoot is the platform fallback when OBSIDIAN_VAULT is unset.
func DefaultVaultRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Obsidian"
	}
	return filepath.Join(home, "Obsidian")
}
