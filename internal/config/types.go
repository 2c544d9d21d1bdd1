package config

type Config struct {
	Addr           string
	AllowedOrigins []string
	Debug          bool
	PersonaPath    string
	LLM            LLMConfig
	Transcriber    TranscriberConfig
	Speech         SpeechConfig
	Camera         CameraConfig
	Storage        StorageConfig
	Paths          PathsConfig
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

type TranscriberConfig struct {
	BaseURL  string
	APIKey   string
	Model    string
	Language string
	BeamSize int
}

type SpeechConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Voice   string
	Speed   float64
}

type CameraConfig struct {
	StreamURLs []string
	Primary    int
	Fallback   int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// PathsConfig holds the fixed artifact paths, each overwritten on next
// use. No versioning, no retention.
type PathsConfig struct {
	ProcessingImage string
	DisplayImage    string
	AudioScratch    string
	AnswerAudio     string
	StaticDir       string
	FramesDir       string
}
