package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/proncoach/internal/audio"
	"codeberg.org/snonux/proncoach/internal/cli"
	"codeberg.org/snonux/proncoach/internal/coach"
	"codeberg.org/snonux/proncoach/internal/feedback"
	"codeberg.org/snonux/proncoach/internal/history"
	"codeberg.org/snonux/proncoach/internal/phonetic"
	"codeberg.org/snonux/proncoach/internal/practice"
	"codeberg.org/snonux/proncoach/internal/recognition"
	"codeberg.org/snonux/proncoach/internal/server"
	"codeberg.org/snonux/proncoach/internal/session"
	"codeberg.org/snonux/proncoach/internal/translation"
)

const (
	breakerFailures = 5
	breakerOpenFor  = 30 * time.Second
	sweepInterval   = time.Minute
)

// Processor wires the practice services together and runs the CLI modes
type Processor struct {
	flags           *cli.Flags
	logger          *zap.Logger
	deck            *practice.Deck
	coach           *coach.Coach
	recognizer      recognition.Recognizer
	store           *history.Store
	library         *audio.Library
	translator      *translation.Translator
	phoneticFetcher *phonetic.Fetcher
}

// NewProcessor builds every service from flags and the loaded config
func NewProcessor(ctx context.Context, flags *cli.Flags) (*Processor, error) {
	logger, err := newLogger(stringSetting("log.level", flags.LogLevel), boolSetting("log.development", flags.LogDev))
	if err != nil {
		return nil, err
	}

	apiKey := cli.GetOpenAIKey()
	p := &Processor{
		flags:           flags,
		logger:          logger,
		translator:      translation.NewTranslator(apiKey, "", stringSetting("practice.translate_to", flags.TargetLanguage)),
		phoneticFetcher: phonetic.NewFetcher(apiKey, ""),
	}

	if p.deck, err = p.buildDeck(ctx); err != nil {
		p.Close()
		return nil, err
	}

	requester, err := p.buildFeedback(ctx)
	if err != nil {
		p.Close()
		return nil, err
	}

	p.recognizer = p.buildRecognizer(ctx)

	if err := p.openHistory(); err != nil {
		p.Close()
		return nil, err
	}

	p.library = p.buildLibrary()

	config := coach.Config{
		Deck:       p.deck,
		Sessions:   session.NewManager(durationSetting("server.session_ttl", flags.SessionTTL)),
		Feedback:   requester,
		Recognizer: p.recognizer,
		Logger:     logger,
		Language:   stringSetting("practice.language", flags.Language),
	}
	if p.store != nil {
		config.History = p.store
	}

	if p.coach, err = coach.New(config); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// Close releases the recognizer clients and the history database and
// flushes logs
func (p *Processor) Close() error {
	var errs []error
	if p.recognizer != nil {
		errs = append(errs, recognition.Close(p.recognizer))
		p.recognizer = nil
	}
	if p.store != nil {
		errs = append(errs, p.store.Close())
		p.store = nil
	}
	if p.logger != nil {
		_ = p.logger.Sync()
	}
	return errors.Join(errs...)
}

// Serve runs the HTTP widget until ctx is canceled
func (p *Processor) Serve(ctx context.Context) error {
	config := server.DefaultConfig()
	config.Addr = stringSetting("server.listen", p.flags.Listen)
	config.AllowedOrigins = stringSliceSetting("server.allowed_origins", p.flags.Origins)

	// Interfaces stay nil when the backing service is disabled
	var reference server.ReferenceAudio
	if p.library != nil {
		reference = p.library
	}
	var hist server.HistoryReader
	if p.store != nil {
		hist = p.store
	}

	srv := server.New(config, p.coach, reference, hist, p.logger)

	go p.coach.Sessions().Run(ctx, sweepInterval)

	fmt.Printf("Serving pronunciation practice on http://%s\n", config.Addr)
	return srv.ListenAndServe(ctx)
}

// ListItems prints the practice list
func (p *Processor) ListItems(w io.Writer) {
	for i, it := range p.deck.Items() {
		words := make([]string, len(it.Words))
		for j, word := range it.Words {
			words[j] = fmt.Sprintf("%s /%s/", word.Text, word.IPA)
		}
		fmt.Fprintf(w, "%3d  %-8s  %s", i, it.Kind, strings.Join(words, " | "))
		if it.Translation != "" {
			fmt.Fprintf(w, "  = %s", it.Translation)
		}
		fmt.Fprintln(w)
	}
}

// Check judges a single attempt from the shell
func (p *Processor) Check(ctx context.Context, word, transcript string) (feedback.Result, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return feedback.Result{}, feedback.ErrMissingWord
	}

	result, err := p.coach.Feedback(ctx, feedback.Request{
		Word:       word,
		IPA:        p.lookupIPA(ctx, word),
		Transcript: transcript,
	})
	if err != nil {
		return feedback.Result{}, err
	}
	return result, nil
}

// TranscribeFile sends a recording to the server-side recognizer
func (p *Processor) TranscribeFile(ctx context.Context, path string) (recognition.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recognition.Transcript{}, fmt.Errorf("failed to read recording: %w", err)
	}

	return p.coach.Transcribe(ctx, recognition.Audio{
		Data:        data,
		ContentType: contentTypeFor(path, data),
		Filename:    filepath.Base(path),
	})
}

// lookupIPA prefers the practice list and asks the model otherwise
func (p *Processor) lookupIPA(ctx context.Context, word string) string {
	for _, it := range p.deck.Items() {
		for _, w := range it.Words {
			if strings.EqualFold(w.Text, word) {
				return w.IPA
			}
		}
	}

	ipa, err := p.phoneticFetcher.FetchIPA(ctx, word)
	if err != nil {
		p.logger.Debug("no IPA for word", zap.String("word", word), zap.Error(err))
		return ""
	}
	return ipa
}

func (p *Processor) buildDeck(ctx context.Context) (*practice.Deck, error) {
	itemsFile := stringSetting("practice.items_file", p.flags.ItemsFile)
	if itemsFile == "" {
		return practice.NewDeck(practice.DefaultItems())
	}

	items, err := practice.ReadItemsFile(itemsFile)
	if err != nil {
		return nil, err
	}

	if boolSetting("practice.enrich", p.flags.Enrich) {
		fmt.Printf("Looking up missing IPA and %s translations...\n", p.translator.Target())
		enriched, err := practice.Enrich(ctx, items, p.phoneticFetcher, p.translator)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		items = enriched
	}

	deck, err := practice.NewDeck(items)
	if err != nil {
		return nil, fmt.Errorf("practice list %s: %w", itemsFile, err)
	}
	return deck, nil
}

func (p *Processor) buildFeedback(ctx context.Context) (*feedback.Requester, error) {
	config := feedback.DefaultConfig()
	config.Provider = stringSetting("feedback.provider", p.flags.FeedbackProvider)
	config.Temperature = float32(floatSetting("feedback.temperature", p.flags.FeedbackTemperature))
	config.GeminiKey = cli.GetGeminiKey()
	config.OpenAIKey = cli.GetOpenAIKey()

	model := stringSetting("feedback.model", p.flags.FeedbackModel)
	switch config.Provider {
	case "gemini":
		config.GeminiModel = model
	case "openai":
		// The default model names a Gemini model
		if viper.IsSet("feedback.model") || model != cli.NewFlags().FeedbackModel {
			config.OpenAIModel = model
		}
	}

	if config.Provider == "gemini" && config.GeminiKey == "" && config.OpenAIKey != "" {
		p.logger.Warn("no Gemini API key, using OpenAI for feedback")
		config.Provider = "openai"
	}

	gen, err := feedback.NewGenerator(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback generator (use --feedback-provider mock to run offline): %w", err)
	}

	return feedback.NewRequester(gen, breakerFailures, breakerOpenFor, config.Timeout), nil
}

// buildRecognizer returns nil when no server-side recognizer can be created;
// the widget then relies on the browser's speech recognition.
func (p *Processor) buildRecognizer(ctx context.Context) recognition.Recognizer {
	var primary recognition.Recognizer
	if name := stringSetting("recognition.provider", p.flags.Recognizer); name != "none" {
		r, err := p.newRecognizer(ctx, p.recognizerConfig(name, p.primaryRecognizerModel(name)))
		if err != nil {
			p.logger.Warn("server-side transcription disabled", zap.Error(err))
		} else {
			primary = r
		}
	}

	fallbackName := stringSetting("recognition.fallback", p.flags.RecognizerFallback)
	if fallbackName == "" || fallbackName == "none" {
		return primary
	}

	fallbackModel := stringSetting("recognition.fallback_model", p.flags.RecognizerFallbackModel)
	fallback, err := p.newRecognizer(ctx, p.recognizerConfig(fallbackName, fallbackModel))
	if err != nil {
		p.logger.Warn("fallback recognizer disabled", zap.String("provider", fallbackName), zap.Error(err))
		return primary
	}
	if primary == nil {
		return fallback
	}
	return recognition.NewFallback(primary, fallback)
}

// primaryRecognizerModel returns the model for the primary recognizer, or ""
// to keep the provider default
func (p *Processor) primaryRecognizerModel(provider string) string {
	model := stringSetting("recognition.model", p.flags.RecognizerModel)
	// The default model names an OpenAI model
	if provider == "google" && !viper.IsSet("recognition.model") && model == cli.NewFlags().RecognizerModel {
		return ""
	}
	return model
}

// recognizerConfig builds the settings of one recognizer. An empty model
// keeps the provider default.
func (p *Processor) recognizerConfig(provider, model string) *recognition.Config {
	config := recognition.DefaultConfig()
	config.Provider = provider
	config.Language = stringSetting("practice.language", p.flags.Language)
	config.OpenAIKey = cli.GetOpenAIKey()
	config.GoogleAPIKey = cli.GetGoogleSpeechKey()
	config.GoogleCredentialsFile = stringSetting("recognition.google_credentials", p.flags.GoogleCredentials)

	if model != "" {
		switch provider {
		case "openai":
			config.OpenAIModel = model
		case "google":
			config.GoogleModel = model
		}
	}
	return config
}

func (p *Processor) newRecognizer(ctx context.Context, config *recognition.Config) (recognition.Recognizer, error) {
	r, err := recognition.NewRecognizer(ctx, config)
	if err != nil {
		return nil, err
	}
	if config.Provider == "mock" {
		return r, nil
	}
	return recognition.NewBreaker(r, recognition.BreakerSettings(r.Name(), breakerFailures, breakerOpenFor)), nil
}

func (p *Processor) openHistory() error {
	if boolSetting("history.disabled", p.flags.NoHistory) {
		return nil
	}

	path := stringSetting("history.database", p.flags.HistoryDB)
	if path == "" {
		path = filepath.Join(cli.DefaultStateDir(), "history.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	store, err := history.Open(path)
	if err != nil {
		return err
	}
	p.store = store
	return nil
}

// buildLibrary returns nil when reference audio is turned off or no
// provider is usable
func (p *Processor) buildLibrary() *audio.Library {
	config := audio.DefaultProviderConfig()
	config.Provider = stringSetting("audio.provider", p.flags.TTSProvider)
	if config.Provider == "none" {
		return nil
	}
	config.OpenAIKey = cli.GetOpenAIKey()
	config.OpenAIModel = stringSetting("audio.openai_model", p.flags.TTSModel)
	config.OpenAIVoice = stringSetting("audio.openai_voice", p.flags.TTSVoice)
	config.OpenAISpeed = floatSetting("audio.openai_speed", p.flags.TTSSpeed)
	if viper.IsSet("audio.openai_instruction") {
		config.OpenAIInstruction = viper.GetString("audio.openai_instruction")
	}
	if viper.IsSet("audio.espeak_voice") {
		config.ESpeakVoice = viper.GetString("audio.espeak_voice")
	}

	dir := stringSetting("audio.cache_dir", p.flags.AudioDir)
	if dir == "" {
		dir = filepath.Join(cli.DefaultStateDir(), "audio")
	}
	config.CacheDir = dir

	provider := p.newSpeechProvider(config)
	if provider == nil {
		return nil
	}

	library, err := audio.NewLibrary(provider, dir, config.OutputFormat)
	if err != nil {
		p.logger.Warn("reference audio disabled", zap.Error(err))
		return nil
	}
	return library
}

func (p *Processor) newSpeechProvider(config *audio.Config) audio.Provider {
	espeak := audio.NewESpeakProvider(config)
	espeakErr := espeak.IsAvailable()

	provider, err := audio.NewProvider(config)
	if err != nil {
		if config.Provider == "openai" && espeakErr == nil {
			p.logger.Warn("OpenAI speech unavailable, using espeak-ng", zap.Error(err))
			return espeak
		}
		p.logger.Warn("reference audio disabled", zap.Error(err))
		return nil
	}

	if config.Provider == "openai" && espeakErr == nil {
		return audio.NewProviderWithFallback(provider, espeak, p.logger)
	}
	return provider
}

// contentTypeFor guesses the media type of a recording
func contentTypeFor(path string, data []byte) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".webm":
		return "audio/webm"
	case ".ogg", ".opus":
		return "audio/ogg"
	case ".flac":
		return "audio/flac"
	case ".wav":
		return "audio/wav"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
