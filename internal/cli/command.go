package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/proncoach/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "proncoach [WORD TRANSCRIPT]",
		Short: "Pronunciation practice coach",
		Long: `proncoach serves a pronunciation practice widget. Learners say a word or
sentence, the browser (or a cloud speech service) transcribes it, and a
language model judges the attempt and suggests a tip.

Examples:
  proncoach                                 # Serve the widget on 127.0.0.1:8080
  proncoach --items my-pairs.txt --enrich   # Practice a custom list, fill in IPA
  proncoach --check sheep ship              # Judge one attempt from the shell
  proncoach --transcribe attempt.webm       # Transcribe a recording
  proncoach --list-items                    # Show the practice list`,
		Args:    cobra.MaximumNArgs(2),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultStateDir is where the history database and audio cache live
func DefaultStateDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "proncoach")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	stateDir := DefaultStateDir()

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.proncoach.yaml)")

	// Server
	cmd.Flags().StringVarP(&flags.Listen, "listen", "l", flags.Listen, "Address to serve the widget on")
	cmd.Flags().StringSliceVar(&flags.Origins, "allowed-origins", flags.Origins, "CORS origins allowed to call the API")
	cmd.Flags().DurationVar(&flags.SessionTTL, "session-ttl", flags.SessionTTL, "Drop sessions idle for longer than this")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&flags.LogDev, "log-dev", false, "Human-readable development logging")

	// Modes
	cmd.Flags().BoolVar(&flags.ListItems, "list-items", false, "Print the practice list and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move the attempt history aside and start fresh")
	cmd.Flags().BoolVar(&flags.Check, "check", false, "Judge a single attempt given as WORD TRANSCRIPT")
	cmd.Flags().StringVar(&flags.Transcribe, "transcribe", "", "Transcribe an audio file and exit")

	// Practice list
	cmd.Flags().StringVarP(&flags.ItemsFile, "items", "i", "", "Practice list file (default: built-in minimal pairs)")
	cmd.Flags().BoolVar(&flags.Enrich, "enrich", false, "Fill in missing IPA and translations with OpenAI")
	cmd.Flags().StringVar(&flags.Language, "language", flags.Language, "Practice language (BCP-47)")
	cmd.Flags().StringVar(&flags.TargetLanguage, "translate-to", flags.TargetLanguage, "Language for translations when enriching")

	// Recognition
	cmd.Flags().StringVar(&flags.Recognizer, "recognizer", flags.Recognizer, "Server-side recognizer: openai, google, mock or none")
	cmd.Flags().StringVar(&flags.RecognizerModel, "recognizer-model", flags.RecognizerModel, "Recognizer model (whisper-1, gpt-4o-transcribe, latest_short)")
	cmd.Flags().StringVar(&flags.RecognizerFallback, "recognizer-fallback", "", "Recognizer to try when the primary fails")
	cmd.Flags().StringVar(&flags.RecognizerFallbackModel, "recognizer-fallback-model", "", "Fallback recognizer model (empty keeps its default)")
	cmd.Flags().StringVar(&flags.GoogleCredentials, "google-credentials", "", "Google Cloud service account JSON for speech recognition")

	// Feedback
	cmd.Flags().StringVar(&flags.FeedbackProvider, "feedback-provider", flags.FeedbackProvider, "Feedback model provider: gemini, openai or mock")
	cmd.Flags().StringVar(&flags.FeedbackModel, "feedback-model", flags.FeedbackModel, "Feedback model name")
	cmd.Flags().Float64Var(&flags.FeedbackTemperature, "feedback-temperature", flags.FeedbackTemperature, "Feedback model temperature")

	// Reference audio
	cmd.Flags().StringVar(&flags.TTSProvider, "tts", flags.TTSProvider, "Reference audio provider: openai, espeak or none")
	cmd.Flags().StringVar(&flags.TTSModel, "tts-model", flags.TTSModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.TTSVoice, "tts-voice", flags.TTSVoice, "OpenAI voice: alloy, ash, coral, echo, fable, nova, onyx, sage, shimmer")
	cmd.Flags().Float64Var(&flags.TTSSpeed, "tts-speed", flags.TTSSpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.Flags().StringVar(&flags.AudioDir, "audio-dir", filepath.Join(stateDir, "audio"), "Reference audio cache directory")

	// History
	cmd.Flags().StringVar(&flags.HistoryDB, "history", filepath.Join(stateDir, "history.db"), "Attempt history database")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record attempts")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen"))
	viper.BindPFlag("server.allowed_origins", cmd.Flags().Lookup("allowed-origins"))
	viper.BindPFlag("server.session_ttl", cmd.Flags().Lookup("session-ttl"))
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("log.development", cmd.Flags().Lookup("log-dev"))
	viper.BindPFlag("practice.items_file", cmd.Flags().Lookup("items"))
	viper.BindPFlag("practice.enrich", cmd.Flags().Lookup("enrich"))
	viper.BindPFlag("practice.language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("practice.translate_to", cmd.Flags().Lookup("translate-to"))
	viper.BindPFlag("recognition.provider", cmd.Flags().Lookup("recognizer"))
	viper.BindPFlag("recognition.model", cmd.Flags().Lookup("recognizer-model"))
	viper.BindPFlag("recognition.fallback", cmd.Flags().Lookup("recognizer-fallback"))
	viper.BindPFlag("recognition.fallback_model", cmd.Flags().Lookup("recognizer-fallback-model"))
	viper.BindPFlag("recognition.google_credentials", cmd.Flags().Lookup("google-credentials"))
	viper.BindPFlag("feedback.provider", cmd.Flags().Lookup("feedback-provider"))
	viper.BindPFlag("feedback.model", cmd.Flags().Lookup("feedback-model"))
	viper.BindPFlag("feedback.temperature", cmd.Flags().Lookup("feedback-temperature"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("tts"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("tts-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("tts-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("tts-speed"))
	viper.BindPFlag("audio.cache_dir", cmd.Flags().Lookup("audio-dir"))
	viper.BindPFlag("history.database", cmd.Flags().Lookup("history"))
	viper.BindPFlag("history.disabled", cmd.Flags().Lookup("no-history"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".proncoach" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".proncoach")
	}

	viper.SetEnvPrefix("PRONCOACH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("openai.api_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			return key
		}
	}
	return viper.GetString("feedback.gemini_key")
}

// GetGoogleSpeechKey retrieves an API key for Cloud Speech-to-Text. Service
// account credentials take precedence when configured.
func GetGoogleSpeechKey() string {
	if key := os.Getenv("GOOGLE_SPEECH_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("recognition.google_api_key")
}
