package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConverter()
	c.normalizePage()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SpoolDir) == "" {
		c.Paths.SpoolDir = defaultSpoolDir
	}
	if c.Paths.SpoolDir, err = expandPath(c.Paths.SpoolDir); err != nil {
		return fmt.Errorf("paths.spool_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConverter() {
	c.Converter.ConvertURL = strings.TrimSpace(c.Converter.ConvertURL)
	c.Converter.FormatsURL = strings.TrimSpace(c.Converter.FormatsURL)
	if c.Converter.RequestTimeout <= 0 {
		c.Converter.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizePage() {
	c.Page.Source = strings.ToLower(strings.TrimSpace(c.Page.Source))
	c.Page.Target = strings.ToLower(strings.TrimSpace(c.Page.Target))
	c.Page.SourcePageTemplate = strings.TrimSpace(c.Page.SourcePageTemplate)
	if c.Page.SourcePageTemplate == "" {
		c.Page.SourcePageTemplate = defaultSourcePageTemplate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
