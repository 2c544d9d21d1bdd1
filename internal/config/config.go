package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// profile is the optional gior.yml file. Environment variables win over
// profile values.
type profile struct {
	Persona  string   `yaml:"persona"`
	Language string   `yaml:"language"`
	Voice    string   `yaml:"voice"`
	Speed    float64  `yaml:"speed"`
	Cameras  []string `yaml:"cameras"`
}

func Load() (*Config, error) {
	prof := loadProfile()

	addr := os.Getenv("GIOR_ADDR")
	if addr == "" {
		addr = ":5000"
	}

	origins := []string{"*"}
	if v := os.Getenv("GIOR_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	personaPath := os.Getenv("GIOR_PERSONA")
	if personaPath == "" {
		personaPath = prof.Persona
	}

	llmConfig, err := loadLLMConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Addr:           addr,
		AllowedOrigins: origins,
		Debug:          os.Getenv("GIOR_DEBUG") == "true",
		PersonaPath:    personaPath,
		LLM:            llmConfig,
		Transcriber:    loadTranscriberConfig(prof),
		Speech:         loadSpeechConfig(prof),
		Camera:         loadCameraConfig(prof),
		Storage:        loadStorageConfig(),
		Paths:          defaultPaths(),
	}, nil
}

func loadProfile() profile {
	path := os.Getenv("GIOR_PROFILE")
	if path == "" {
		path = "gior.yml"
	}

	var prof profile
	data, err := os.ReadFile(path)
	if err != nil {
		return prof
	}

	if err := yaml.Unmarshal(data, &prof); err != nil {
		return profile{}
	}

	return prof
}

func defaultPaths() PathsConfig {
	return PathsConfig{
		ProcessingImage: "frames/captured_frame.jpg",
		DisplayImage:    "static/captured.jpg",
		AudioScratch:    "static/temp_audio.wav",
		AnswerAudio:     "static/resposta.mp3",
		StaticDir:       "static",
		FramesDir:       "frames",
	}
}

func loadLLMConfig() (LLMConfig, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openai"
	}

	apiKey, err := getAPIKey(provider, "LLM")
	if err != nil {
		return LLMConfig{}, err
	}

	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}, nil
}

func loadTranscriberConfig(prof profile) TranscriberConfig {
	baseURL := os.Getenv("WHISPER_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000/v1"
	}

	language := os.Getenv("WHISPER_LANGUAGE")
	if language == "" {
		language = prof.Language
	}
	if language == "" {
		language = "pt"
	}

	beamSize := 5
	if v := os.Getenv("WHISPER_BEAM_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			beamSize = n
		}
	}

	return TranscriberConfig{
		BaseURL:  baseURL,
		APIKey:   os.Getenv("WHISPER_API_KEY"),
		Model:    os.Getenv("WHISPER_MODEL"),
		Language: language,
		BeamSize: beamSize,
	}
}

func loadSpeechConfig(prof profile) SpeechConfig {
	voice := os.Getenv("TTS_VOICE")
	if voice == "" {
		voice = prof.Voice
	}
	if voice == "" {
		voice = "onyx"
	}

	speed := prof.Speed
	if v := os.Getenv("TTS_SPEED"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			speed = f
		}
	}
	if speed == 0 {
		speed = 1.3
	}

	apiKey := os.Getenv("TTS_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return SpeechConfig{
		BaseURL: os.Getenv("TTS_BASE_URL"),
		APIKey:  apiKey,
		Model:   os.Getenv("TTS_MODEL"),
		Voice:   voice,
		Speed:   speed,
	}
}

func loadCameraConfig(prof profile) CameraConfig {
	urls := prof.Cameras
	if v := os.Getenv("CAMERA_URLS"); v != "" {
		urls = strings.Split(v, ",")
	}
	if len(urls) == 0 {
		urls = []string{"http://localhost:8080/stream", "http://localhost:8081/stream"}
	}

	primary := 0
	if v := os.Getenv("CAMERA_PRIMARY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			primary = n
		}
	}

	fallback := 1
	if v := os.Getenv("CAMERA_FALLBACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			fallback = n
		}
	}

	return CameraConfig{
		StreamURLs: urls,
		Primary:    primary,
		Fallback:   fallback,
	}
}

func loadStorageConfig() StorageConfig {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "minio:9000"
	}

	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")

	return StorageConfig{
		Enabled:   accessKey != "" && secretKey != "",
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
		UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

func getAPIKey(provider, prefix string) (string, error) {
	envKey := os.Getenv(prefix + "_API_KEY")
	if envKey != "" {
		return envKey, nil
	}

	switch provider {
	case "claude":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if key == "" {
			return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
		}
		return key, nil
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return "", fmt.Errorf("OPENAI_API_KEY not set")
		}
		return key, nil
	case "ollama":
		// Ollama doesn't need an API key
		return "ollama", nil
	default:
		key := os.Getenv(strings.ToUpper(provider) + "_API_KEY")
		if key == "" {
			return "", fmt.Errorf("%s_API_KEY not set", strings.ToUpper(provider))
		}
		return key, nil
	}
}
