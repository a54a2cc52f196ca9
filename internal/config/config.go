package config

import (
	"fmt"
	"time"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	LLM         LLMConfig         `yaml:"llm"`
	Store       StoreConfig       `yaml:"store"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Watcher     WatcherConfig     `yaml:"watcher"`
}

type ServerConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxUploadMB  int64         `yaml:"max_upload_mb"`
}

type WhisperConfig struct {
	Engine     string `yaml:"engine"`
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	BeamSize   int    `yaml:"beam_size"`
}

type FFmpegConfig struct {
	Binary string `yaml:"binary"`
}

type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	BaseURL     string        `yaml:"base_url"`
	Model       string        `yaml:"model"`
	APIKeys     []string      `yaml:"api_keys"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"`
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type PathsConfig struct {
	Temp     string `yaml:"temp"`
	Inbox    string `yaml:"inbox"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type WatcherConfig struct {
	Enabled bool `yaml:"enabled"`
}

const (
	EngineBindings = "bindings"
	EngineCLI      = "cli"

	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	DefaultOpenAIModel    = "tinyllama"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultAnthropicModel = "claude-sonnet-4-5"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.Engine == "" {
		c.Whisper.Engine = EngineBindings
	}
	switch c.Whisper.Engine {
	case EngineBindings:
	case EngineCLI:
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required for the cli engine")
		}
	default:
		return fmt.Errorf("whisper.engine %q is not supported", c.Whisper.Engine)
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = "http://localhost:11434/v1"
		}
		if c.LLM.Model == "" {
			c.LLM.Model = DefaultOpenAIModel
		}
	case ProviderGemini:
		if len(c.LLM.APIKeys) == 0 {
			return fmt.Errorf("llm.api_keys is required for provider %s", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			c.LLM.Model = DefaultGeminiModel
		}
	case ProviderAnthropic:
		if len(c.LLM.APIKeys) == 0 {
			return fmt.Errorf("llm.api_keys is required for provider %s", c.LLM.Provider)
		}
		if c.LLM.Model == "" {
			c.LLM.Model = DefaultAnthropicModel
		}
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverMongo
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.URI == "" {
			c.Store.URI = "mongodb://localhost:27017"
		}
	case DriverPostgres:
		if c.Store.URI == "" {
			return fmt.Errorf("store.uri is required for postgres")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	if c.Store.Database == "" {
		c.Store.Database = "meetings"
	}
	if c.Store.Collection == "" {
		c.Store.Collection = "summaries"
	}

	if c.Server.Address == "" {
		c.Server.Address = ":8000"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 5 * time.Minute
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Minute
	}
	if c.Server.MaxUploadMB == 0 {
		c.Server.MaxUploadMB = 512
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.BeamSize == 0 {
		c.Whisper.BeamSize = 5
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 30 * time.Minute
	}
	if c.LLM.MaxAttempts == 0 {
		c.LLM.MaxAttempts = 2
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Inbox == "" {
		c.Paths.Inbox = "data/inbox"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}

	return nil
}
