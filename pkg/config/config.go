// Package config loads Parley configuration from defaults, an optional YAML
// file, and PARLEY_-prefixed environment variables, in that order.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Log       LogConfig       `koanf:"log"`
	LLM       LLMConfig       `koanf:"llm"`
	Interview InterviewConfig `koanf:"interview"`
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json, text
}

type LLMConfig struct {
	// Preference selects the backend as "provider:model" (openai, anthropic).
	Preference      string `koanf:"preference"`
	OpenAIAPIKey    string `koanf:"openai_api_key"`
	AnthropicAPIKey string `koanf:"anthropic_api_key"`
	TimeoutSeconds  int    `koanf:"timeout_seconds"`
	MaxRetries      int    `koanf:"max_retries"`
}

// Timeout returns the per-attempt request timeout.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type InterviewConfig struct {
	// RoundsToAdvance is the round count on a topic after which the
	// depth-control role moves on.
	RoundsToAdvance int `koanf:"rounds_to_advance"`
	// MaxFollowUps caps the in-round follow-up loop.
	MaxFollowUps int `koanf:"max_follow_ups"`
	// DeepenBelow is the score under which a topic is probed deeper.
	DeepenBelow float64 `koanf:"deepen_below"`
	// RephraseBelow is the score under which the original question is
	// restated instead of followed up.
	RephraseBelow float64 `koanf:"rephrase_below"`
	// FollowUpStopAt is the score at which the follow-up loop exits.
	FollowUpStopAt float64 `koanf:"follow_up_stop_at"`
	// TopicsFile optionally points at a YAML topic plan.
	TopicsFile string `koanf:"topics_file"`
}

type ServerConfig struct {
	Addr        string   `koanf:"addr"`
	CORSOrigins []string `koanf:"cors_origins"`
}

type StoreConfig struct {
	// Path is the SQLite database for archived transcripts. Empty disables
	// archiving.
	Path string `koanf:"path"`
}

type TelemetryConfig struct {
	Exporter     string `koanf:"exporter"` // none, stdout, otlp
	OTLPEndpoint string `koanf:"otlp_endpoint"`
	OTLPInsecure bool   `koanf:"otlp_insecure"`
}

// underscoreLeafKeys lists the leaf config keys that themselves contain
// underscores, so the env mapper does not split them into nested paths.
var underscoreLeafKeys = []string{
	"openai_api_key",
	"anthropic_api_key",
	"timeout_seconds",
	"max_retries",
	"rounds_to_advance",
	"max_follow_ups",
	"deepen_below",
	"rephrase_below",
	"follow_up_stop_at",
	"topics_file",
	"cors_origins",
	"otlp_endpoint",
	"otlp_insecure",
}

// envKeyToConfigKey maps PARLEY_INTERVIEW_MAX_FOLLOW_UPS to
// interview.max_follow_ups: section separators become dots while known
// underscore-bearing leaf keys stay intact.
func envKeyToConfigKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "PARLEY_"))
	for _, leaf := range underscoreLeafKeys {
		if strings.HasSuffix(key, "_"+leaf) {
			section := strings.TrimSuffix(key, "_"+leaf)
			return strings.ReplaceAll(section, "_", ".") + "." + leaf
		}
	}
	return strings.ReplaceAll(key, "_", ".")
}

// Load reads configuration. path may be empty to skip the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("llm.preference", "openai:gpt-4o-mini")
	k.Set("llm.timeout_seconds", 30)
	k.Set("llm.max_retries", 3)
	k.Set("interview.rounds_to_advance", 2)
	k.Set("interview.max_follow_ups", 3)
	k.Set("interview.deepen_below", 6.0)
	k.Set("interview.rephrase_below", 4.0)
	k.Set("interview.follow_up_stop_at", 8.0)
	k.Set("server.addr", ":8000")
	k.Set("server.cors_origins", []string{"*"})
	k.Set("store.path", "parley.db")
	k.Set("telemetry.exporter", "none")

	// 1. Load from file
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// 2. Load from ENV (PARLEY_LLM_PREFERENCE -> llm.preference)
	if err := k.Load(env.Provider("PARLEY_", ".", envKeyToConfigKey), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Vendor credentials follow the SDK conventions when not set explicitly.
	if cfg.LLM.OpenAIAPIKey == "" {
		cfg.LLM.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.AnthropicAPIKey == "" {
		cfg.LLM.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	return &cfg, nil
}
