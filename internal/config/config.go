// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the label pipeline.
// Values are populated by Load and treated as immutable afterwards:
// the enricher, composer, and printer receive the value at construction
// time rather than reading the environment themselves.
type Config struct {
	// DatabaseURL is the Postgres connection string for the licensee
	// registry. Required.
	DatabaseURL string

	// BarcodeID is the 2-digit Intelligent Mail barcode identifier.
	// Defaults to "00".
	BarcodeID string

	// ServiceID is the 3-digit USPS service type identifier.
	// Defaults to "270" (first class, no address correction).
	ServiceID string

	// MailerID is the USPS-assigned mailer identifier, 6 or 9 digits.
	// Defaults to "000000000".
	MailerID string

	// PrinterIdentifier is the brother_ql printer target,
	// e.g. "usb://0x04f9:0x209b".
	PrinterIdentifier string

	// PrinterModel is the Brother label printer model. Defaults to "QL-800".
	PrinterModel string

	// LabelSize is the brother_ql label-size code. Defaults to "62".
	LabelSize string

	// FontDir is the directory holding the label fonts
	// (Inconsolata-Regular.ttf, Inconsolata-Bold.ttf, USPSIMBStandard.ttf).
	FontDir string

	// LabelDPI is the render resolution in dots per inch. The physical
	// card stays 4.75" x 2.4" at any resolution. Defaults to 290, which
	// is what brother_ql expects for this label size.
	LabelDPI int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set and any
// identifier that fails its width check.
func Load() (Config, error) {
	cfg := Config{
		BarcodeID:         getEnv("BARCODE_ID", "00"),
		ServiceID:         getEnv("SERVICE_ID", "270"),
		MailerID:          getEnv("MAILER_ID", "000000000"),
		PrinterIdentifier: getEnv("PRINTER_IDENTIFIER", "usb://0x04f9:0x209b"),
		PrinterModel:      getEnv("PRINTER_MODEL", "QL-800"),
		LabelSize:         getEnv("LABEL_SIZE", "62"),
		FontDir:           getEnv("FONT_DIR", "./fonts"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	dpi, err := strconv.Atoi(getEnv("LABEL_DPI", "290"))
	if err != nil || dpi <= 0 {
		return Config{}, fmt.Errorf("LABEL_DPI must be a positive integer, got %q", os.Getenv("LABEL_DPI"))
	}
	cfg.LabelDPI = dpi

	if !isDigits(cfg.BarcodeID) || len(cfg.BarcodeID) != 2 {
		return Config{}, fmt.Errorf("BARCODE_ID must be exactly 2 digits, got %q", cfg.BarcodeID)
	}
	if !isDigits(cfg.ServiceID) || len(cfg.ServiceID) != 3 {
		return Config{}, fmt.Errorf("SERVICE_ID must be exactly 3 digits, got %q", cfg.ServiceID)
	}
	if !isDigits(cfg.MailerID) || (len(cfg.MailerID) != 6 && len(cfg.MailerID) != 9) {
		return Config{}, fmt.Errorf("MAILER_ID must be 6 or 9 digits, got %q", cfg.MailerID)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// isDigits reports whether s is non-empty and contains only ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
