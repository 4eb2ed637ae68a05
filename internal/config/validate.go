package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateBinaries(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	return nil
}

func (c *Config) validateBinaries() error {
	for name, value := range map[string]string{
		"binaries.ffmpeg":  c.Binaries.FFmpeg,
		"binaries.ffprobe": c.Binaries.FFprobe,
		"binaries.opusenc": c.Binaries.Opusenc,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s must not be blank", name)
		}
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.MinFreeGiB < 0 {
		return errors.New("audio.min_free_gib must not be negative")
	}
	for _, param := range c.Audio.ExtraParams {
		if strings.TrimSpace(param) == "" {
			return errors.New("audio.extra_params must not contain blank entries")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
