package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Credential holds the four fields needed to reach the user's remote
// table, plus the optional AI assist key. All values are opaque strings
// supplied by the user; they live in the system keyring, never in the
// config file.
type Credential struct {
	AppID     string `json:"app_id"`
	AppSecret string `json:"app_secret"`
	AppToken  string `json:"app_token"`
	TableID   string `json:"table_id"`
	AIKey     string `json:"ai_key,omitempty"`
}

// Complete reports whether every required field is present. The AI key
// is optional and not part of the check.
func (c Credential) Complete() bool {
	return c.AppID != "" && c.AppSecret != "" &&
		c.AppToken != "" && c.TableID != ""
}

// QuickLink is a user bookmark pinned to the dashboard.
type QuickLink struct {
	Title string `mapstructure:"title" yaml:"title"`
	URL   string `mapstructure:"url" yaml:"url"`
}

// Preferences holds the small free-text settings kept on this device.
type Preferences struct {
	// FocusNote is the pinned "today's focus" line shown in the header.
	FocusNote string `mapstructure:"focus_note" yaml:"focus_note"`

	QuickLinks []QuickLink `mapstructure:"quick_links" yaml:"quick_links"`
}

// AIConfig holds settings for the title/content assist integration.
type AIConfig struct {
	Model     string `mapstructure:"model" yaml:"model"`
	MaxTokens int    `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// MailConfig holds the IMAP capture settings. The mailbox password is
// stored in the keyring, not here.
type MailConfig struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Host         string `mapstructure:"host" yaml:"host"`
	Port         string `mapstructure:"port" yaml:"port"`
	Username     string `mapstructure:"username" yaml:"username"`
	TLS          bool   `mapstructure:"tls" yaml:"tls"`
	LookbackDays int    `mapstructure:"lookback_days" yaml:"lookback_days"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	// Vocabulary selects the field-mapping generation for the remote
	// table ("en", "zh-v1", or "zh-v2"). Existing tables keep whatever
	// generation their columns were created with.
	Vocabulary string `mapstructure:"vocabulary" yaml:"vocabulary"`

	// PageSize caps how many records a list fetch requests.
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	AI          AIConfig    `mapstructure:"ai" yaml:"ai"`
	Mail        MailConfig  `mapstructure:"mail" yaml:"mail"`
	Preferences Preferences `mapstructure:"preferences" yaml:"preferences"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/lifeos/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "lifeos", "config.yaml")
}

// DefaultDataPath returns the default path for the local snapshot
// database.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "lifeos.db")
	}
	return filepath.Join(home, ".local", "share", "lifeos", "lifeos.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Vocabulary: "en",
		PageSize:   100,
		AI: AIConfig{
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1024,
		},
		Mail: MailConfig{
			Port:         "993",
			TLS:          true,
			LookbackDays: 7,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper. If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("vocabulary", "en")
	v.SetDefault("page_size", 100)
	v.SetDefault("ai.model", "claude-sonnet-4-20250514")
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("mail.port", "993")
	v.SetDefault("mail.tls", true)
	v.SetDefault("mail.lookback_days", 7)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("vocabulary", cfg.Vocabulary)
	v.Set("page_size", cfg.PageSize)
	v.Set("ai", cfg.AI)
	v.Set("mail", cfg.Mail)
	v.Set("preferences", cfg.Preferences)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
