// Package config provides configuration management for sdn-vcard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

// Config represents the sdn-vcard configuration.
type Config struct {
	Text  TextConfig  `yaml:"text"`
	XML   XMLConfig   `yaml:"xml"`
	JSON  JSONConfig  `yaml:"json"`
	HTML  HTMLConfig  `yaml:"html"`
	QR    QRConfig    `yaml:"qr"`
	Store StoreConfig `yaml:"store"`
	API   APIConfig   `yaml:"api"`
}

// TextConfig contains plain-text vCard settings.
type TextConfig struct {
	Version   string `yaml:"version"` // "2.1", "3.0" or "4.0"
	AddProdID bool   `yaml:"add_prodid"`
}

// XMLConfig contains xCard settings.
type XMLConfig struct {
	Indent    int  `yaml:"indent"` // negative writes one line
	AddProdID bool `yaml:"add_prodid"`
}

// JSONConfig contains jCard settings.
type JSONConfig struct {
	Indent    int  `yaml:"indent"`
	AddProdID bool `yaml:"add_prodid"`
}

// HTMLConfig contains hCard settings.
type HTMLConfig struct {
	BaseURL string `yaml:"base_url"`
}

// QRConfig contains QR code settings.
type QRConfig struct {
	Size int `yaml:"size"`
}

// StoreConfig contains document store settings.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// APIConfig contains HTTP API settings.
type APIConfig struct {
	Listen      string `yaml:"listen"`
	MaxBodySize int64  `yaml:"max_body_size"`
}

// Default returns a default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Text:  TextConfig{Version: vcard.V4_0.String(), AddProdID: true},
		XML:   XMLConfig{Indent: 2, AddProdID: true},
		JSON:  JSONConfig{Indent: 2, AddProdID: true},
		QR:    QRConfig{Size: 256},
		Store: StoreConfig{Path: filepath.Join(homeDir, ".sdn-vcard", "cards.db")},
		API:   APIConfig{Listen: "127.0.0.1:8089", MaxBodySize: 1 << 20},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".sdn-vcard", "config.yaml")
}

// TextVersion parses Text.Version. An empty value means 4.0.
func (c *Config) TextVersion() (vcard.Version, error) {
	if c.Text.Version == "" {
		return vcard.V4_0, nil
	}
	return vcard.ParseVersion(c.Text.Version)
}

// Load loads the configuration from a file. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if _, err := cfg.TextVersion(); err != nil {
		return nil, fmt.Errorf("invalid text.version in %s: %w", path, err)
	}
	return cfg, nil
}

// Save saves the configuration to a file.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
