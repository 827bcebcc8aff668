package domain

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Download     DownloadConfig     `mapstructure:"download"`
	Extractor    ExtractorConfig    `mapstructure:"extractor"`
	History      HistoryConfig      `mapstructure:"history"`
	Jobs         JobsConfig         `mapstructure:"jobs"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DownloadConfig contains download-related configuration. OutputDir is the
// single runtime-changeable base directory; each job captures its value at
// start time.
type DownloadConfig struct {
	OutputDir       string `mapstructure:"output_dir"`
	LogsDir         string `mapstructure:"logs_dir"`
	UserAgent       string `mapstructure:"user_agent"`
	HistorizeImages bool   `mapstructure:"historize_images"`
}

// ExtractorConfig contains settings for the external extraction engine
type ExtractorConfig struct {
	Binary              string `mapstructure:"binary"`
	FragmentConcurrency int    `mapstructure:"fragment_concurrency"`
	TitleMaxChars       int    `mapstructure:"title_max_chars"`
}

// HistoryConfig contains attribution history settings
type HistoryConfig struct {
	FilePath   string `mapstructure:"file_path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// JobsConfig contains job journal settings
type JobsConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// Some image CDNs reject requests with default or empty user agents, so
// both fetchers identify as a desktop browser.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Download: DownloadConfig{
			OutputDir:       "$HOME/Downloads/mediagrab",
			LogsDir:         "$HOME/Downloads/mediagrab/logs",
			UserAgent:       defaultUserAgent,
			HistorizeImages: false,
		},
		Extractor: ExtractorConfig{
			Binary:              "yt-dlp",
			FragmentConcurrency: 5,
			TitleMaxChars:       150,
		},
		History: HistoryConfig{
			FilePath:   "$HOME/.mediagrab_history.json",
			MaxEntries: 100,
		},
		Jobs: JobsConfig{
			DatabasePath: "$HOME/.mediagrab_jobs.db",
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
