package config

const (
	defaultStateDir           = "~/.local/share/openconvert"
	defaultSpoolDir           = "~/.cache/openconvert/spool"
	defaultOutputDir          = "~/Downloads"
	defaultRequestTimeout     = 120
	defaultSourcePageTemplate = "/convert/sourceplaceholder"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir:  defaultStateDir,
			SpoolDir:  defaultSpoolDir,
			OutputDir: defaultOutputDir,
		},
		Converter: Converter{
			RequestTimeout: defaultRequestTimeout,
		},
		Page: Page{
			SourcePageTemplate: defaultSourcePageTemplate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
