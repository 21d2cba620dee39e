package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validatePage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// The convert URL may legitimately be empty; the engine reports the missing
// endpoint at conversion time instead of refusing to start.
func (c *Config) validateConverter() error {
	for name, value := range map[string]string{
		"converter.convert_url": c.Converter.ConvertURL,
		"converter.formats_url": c.Converter.FormatsURL,
	} {
		if value == "" {
			continue
		}
		parsed, err := url.Parse(value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, value)
		}
	}
	if c.Converter.RequestTimeout <= 0 {
		return errors.New("converter.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validatePage() error {
	if !strings.Contains(c.Page.SourcePageTemplate, "sourceplaceholder") {
		return errors.New(`page.source_page_template must contain "sourceplaceholder"`)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
