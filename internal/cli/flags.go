package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Listen     string
	Origins    []string
	SessionTTL time.Duration
	LogLevel   string
	LogDev     bool

	// Modes
	ListItems  bool
	ListModels bool
	Archive    bool
	Check      bool
	Transcribe string

	// Practice list
	ItemsFile      string
	Enrich         bool
	Language       string
	TargetLanguage string

	// Recognition
	Recognizer              string
	RecognizerModel         string
	RecognizerFallback      string
	RecognizerFallbackModel string
	GoogleCredentials       string

	// Feedback
	FeedbackProvider    string
	FeedbackModel       string
	FeedbackTemperature float64

	// Reference audio
	TTSProvider string
	TTSModel    string
	TTSVoice    string
	TTSSpeed    float64
	AudioDir    string

	// History
	HistoryDB string
	NoHistory bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Listen:              "127.0.0.1:8080",
		Origins:             []string{"*"},
		SessionTTL:          2 * time.Hour,
		LogLevel:            "info",
		Language:            "en-US",
		TargetLanguage:      "Bulgarian",
		Recognizer:          "openai",
		RecognizerModel:     "whisper-1",
		FeedbackProvider:    "gemini",
		FeedbackModel:       "gemini-2.5-flash",
		FeedbackTemperature: 0.2,
		TTSProvider:         "openai",
		TTSModel:            "gpt-4o-mini-tts",
		TTSVoice:            "alloy",
		TTSSpeed:            0.9,
	}
}
