// Package config layers configuration from a JSON file backend and
// DEVO_* environment variables over built-in defaults. Secrets (API
// keys, auth tokens) are environment-only and never written to the
// backend.
package config

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Scripture ScriptureConfig
	Storage   StorageConfig
	Export    ExportConfig
	RAG       RAGConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port      int
	AuthToken string
}

type LLMConfig struct {
	Provider     string // "ollama" or "openai"
	Model        string
	BaseURL      string
	OpenAIAPIKey string
}

type ScriptureConfig struct {
	APIBibleKey     string
	APIBibleBibleID string
}

type StorageConfig struct {
	DataDir string
}

type ExportConfig struct {
	Command string
}

type RAGConfig struct {
	TopK int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4000,
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "mistral-nemo",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Export: ExportConfig{
			Command: "pandoc",
		},
		RAG: RAGConfig{
			TopK: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend at
// $XDG_CONFIG_HOME/devo/config.json, then applies DEVO_* environment
// overrides.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}
