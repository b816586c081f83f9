package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting for the client and the engine simulator.
type Config struct {
	Server ServerConfig
	Engine EngineConfig
	AI     AIConfig
	Speech SpeechConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	engine, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Engine: engine, AI: ai, Speech: speech}, nil
}

// ServerConfig describes the simulator's listen address.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// Accept ":5000" or "127.0.0.1:5000" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// EngineConfig describes how the client reaches the interview engine.
type EngineConfig struct {
	BaseURL string
	Timeout time.Duration
}

func loadEngineConfig() (EngineConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("ENGINE_TIMEOUT"); err != nil {
		return EngineConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return EngineConfig{}, fmt.Errorf("ENGINE_TIMEOUT must be at least 1 second")
		}
		timeoutSeconds = *override
	}

	return EngineConfig{
		BaseURL: getEnvOrDefault("ENGINE_BASE_URL", "http://127.0.0.1:5000"),
		Timeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// AIConfig describes the optional chat model behind the simulator's
// follow-up generator.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark credentials missing: provide ARK_API_KEY + ARK_MODEL or the AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

// SpeechConfig describes the speech gateway and the local audio commands.
// The locale is fixed for the process lifetime.
type SpeechConfig struct {
	ASRURL        string
	TTSURL        string
	AppKey        string
	AccessToken   string
	Language      string
	Voice         string
	RecordCommand string
	PlayCommand   string
	Timeout       int
	Enabled       bool
}

func loadSpeechConfig() (SpeechConfig, error) {
	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("SPEECH_TIMEOUT"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		timeoutSeconds = *override
	}

	appKey := strings.TrimSpace(os.Getenv("SPEECH_APP_KEY"))

	accessToken := strings.TrimSpace(os.Getenv("SPEECH_ACCESS_TOKEN"))
	if accessToken == "" {
		accessToken = strings.TrimSpace(os.Getenv("SPEECH_API_KEY"))
	}

	asrURL := strings.TrimSpace(os.Getenv("SPEECH_ASR_URL"))
	ttsURL := strings.TrimSpace(os.Getenv("SPEECH_TTS_URL"))

	enabled := appKey != "" && accessToken != "" && (asrURL != "" || ttsURL != "")

	return SpeechConfig{
		ASRURL:        asrURL,
		TTSURL:        ttsURL,
		AppKey:        appKey,
		AccessToken:   accessToken,
		Language:      getEnvOrDefault("SPEECH_LANGUAGE", "en-US"),
		Voice:         getEnvOrDefault("SPEECH_TTS_VOICE", ""),
		RecordCommand: strings.TrimSpace(os.Getenv("AUDIO_RECORD_COMMAND")),
		PlayCommand:   strings.TrimSpace(os.Getenv("AUDIO_PLAY_COMMAND")),
		Timeout:       timeoutSeconds,
		Enabled:       enabled,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
