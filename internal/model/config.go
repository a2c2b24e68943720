package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Page size identifiers accepted in configuration.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
)

// ConversionConfig holds every user-tunable option for a conversion run.
// A config value is immutable for the duration of a single render call.
type ConversionConfig struct {
	// PageSize selects the PDF page size: "letter" or "a4".
	PageSize string `mapstructure:"page_size" yaml:"page_size"`

	// FontFamily and FontSize control the fallback renderer's typography.
	FontFamily string `mapstructure:"font_family" yaml:"font_family"`
	FontSize   int    `mapstructure:"font_size" yaml:"font_size"`

	// OrganizeByDate places output PDFs under YYYY/MM subfolders.
	OrganizeByDate bool `mapstructure:"organize_by_date" yaml:"organize_by_date"`

	// Metadata fields included in the rendered header block.
	IncludeSubject bool `mapstructure:"include_subject" yaml:"include_subject"`
	IncludeFrom    bool `mapstructure:"include_from" yaml:"include_from"`
	IncludeTo      bool `mapstructure:"include_to" yaml:"include_to"`
	IncludeCC      bool `mapstructure:"include_cc" yaml:"include_cc"`
	IncludeBCC     bool `mapstructure:"include_bcc" yaml:"include_bcc"`
	IncludeDate    bool `mapstructure:"include_date" yaml:"include_date"`

	// ExtractAttachments saves attachments next to each PDF.
	ExtractAttachments bool `mapstructure:"extract_attachments" yaml:"extract_attachments"`

	// AttachmentFolder is the folder-name suffix for extracted attachments.
	AttachmentFolder string `mapstructure:"attachment_folder" yaml:"attachment_folder"`

	// GenerateAddressBook collects contacts from headers into a CSV.
	GenerateAddressBook bool `mapstructure:"generate_address_book" yaml:"generate_address_book"`

	// UseChrome enables the headless-Chrome HTML rendering tier.
	UseChrome bool `mapstructure:"use_chrome" yaml:"use_chrome"`

	// HistoryDB is an optional SQLite path for recording conversion runs.
	HistoryDB string `mapstructure:"history_db" yaml:"history_db"`
}

// IsA4 reports whether the configured page size is A4.
func (c ConversionConfig) IsA4() bool {
	return strings.EqualFold(c.PageSize, PageSizeA4)
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/eml2pdf/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "eml2pdf", "config.yaml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() ConversionConfig {
	return ConversionConfig{
		PageSize:         PageSizeLetter,
		FontFamily:       "Helvetica",
		FontSize:         11,
		OrganizeByDate:   true,
		IncludeSubject:   true,
		IncludeFrom:      true,
		IncludeTo:        true,
		IncludeCC:        true,
		IncludeBCC:       true,
		IncludeDate:      true,
		AttachmentFolder: "attachments",
		UseChrome:        true,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing or corrupt file yields the default configuration.
func LoadConfig(path string) (ConversionConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := DefaultConfig()
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("font_family", def.FontFamily)
	v.SetDefault("font_size", def.FontSize)
	v.SetDefault("organize_by_date", def.OrganizeByDate)
	v.SetDefault("include_subject", def.IncludeSubject)
	v.SetDefault("include_from", def.IncludeFrom)
	v.SetDefault("include_to", def.IncludeTo)
	v.SetDefault("include_cc", def.IncludeCC)
	v.SetDefault("include_bcc", def.IncludeBCC)
	v.SetDefault("include_date", def.IncludeDate)
	v.SetDefault("extract_attachments", def.ExtractAttachments)
	v.SetDefault("attachment_folder", def.AttachmentFolder)
	v.SetDefault("generate_address_book", def.GenerateAddressBook)
	v.SetDefault("use_chrome", def.UseChrome)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		// A corrupt config falls back to defaults rather than blocking a run.
		return def, nil
	}

	cfg := def
	if err := v.Unmarshal(&cfg); err != nil {
		return def, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if !strings.EqualFold(cfg.PageSize, PageSizeA4) {
		cfg.PageSize = PageSizeLetter
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg ConversionConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("page_size", cfg.PageSize)
	v.Set("font_family", cfg.FontFamily)
	v.Set("font_size", cfg.FontSize)
	v.Set("organize_by_date", cfg.OrganizeByDate)
	v.Set("include_subject", cfg.IncludeSubject)
	v.Set("include_from", cfg.IncludeFrom)
	v.Set("include_to", cfg.IncludeTo)
	v.Set("include_cc", cfg.IncludeCC)
	v.Set("include_bcc", cfg.IncludeBCC)
	v.Set("include_date", cfg.IncludeDate)
	v.Set("extract_attachments", cfg.ExtractAttachments)
	v.Set("attachment_folder", cfg.AttachmentFolder)
	v.Set("generate_address_book", cfg.GenerateAddressBook)
	v.Set("use_chrome", cfg.UseChrome)
	v.Set("history_db", cfg.HistoryDB)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
