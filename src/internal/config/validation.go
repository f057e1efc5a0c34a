package config

import (
	"fmt"
)

// Validate re-checks a configuration after CLI overrides were applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig is the centralized validator for the entire configuration
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateOrganizer(&cfg.Organizer); err != nil {
		return fmt.Errorf("organizer config: %w", err)
	}

	if cfg.Logging != nil {
		if err := validateLogConfig(cfg.Logging); err != nil {
			return fmt.Errorf("logging config: %w", err)
		}
	}

	return nil
}

func validateOrganizer(cfg *OrganizerConfig) error {
	if cfg.MaxFolderSizeGB <= 0 {
		return fmt.Errorf("max_folder_size_gb must be positive, got %g", cfg.MaxFolderSizeGB)
	}

	validModes := map[string]bool{
		"move": true, "copy": true,
	}
	if !validModes[cfg.Mode] {
		return fmt.Errorf("invalid mode: %s (valid: move, copy)", cfg.Mode)
	}

	if cfg.ThrottleBps < 0 {
		return fmt.Errorf("throttle_bps must not be negative, got %d", cfg.ThrottleBps)
	}

	return nil
}
