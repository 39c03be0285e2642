package recognition

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// speechClient is the part of the Cloud Speech client the recognizer uses
type speechClient interface {
	Recognize(ctx context.Context, req *speechpb.RecognizeRequest, opts ...gax.CallOption) (*speechpb.RecognizeResponse, error)
	Close() error
}

// GoogleRecognizer implements Recognizer using Google Cloud Speech-to-Text
type GoogleRecognizer struct {
	client speechClient
	config *Config
}

// NewGoogleRecognizer creates a Cloud Speech client. Credentials come from
// the configured file, an API key, or application default credentials.
func NewGoogleRecognizer(ctx context.Context, config *Config) (Recognizer, error) {
	var opts []option.ClientOption
	switch {
	case config.GoogleCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(config.GoogleCredentialsFile))
	case config.GoogleAPIKey != "":
		opts = append(opts, option.WithAPIKey(config.GoogleAPIKey))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google speech client: %w", err)
	}

	return newGoogleRecognizer(client, config), nil
}

func newGoogleRecognizer(client speechClient, config *Config) *GoogleRecognizer {
	return &GoogleRecognizer{client: client, config: config}
}

// Transcribe runs a synchronous recognition and returns the first alternative
func (r *GoogleRecognizer) Transcribe(ctx context.Context, audio Audio) (Transcript, error) {
	if err := validateAudio(audio); err != nil {
		return Transcript{}, err
	}

	req, err := r.buildRequest(audio)
	if err != nil {
		return Transcript{}, err
	}

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	resp, err := r.client.Recognize(ctx, req)
	if err != nil {
		return Transcript{}, fmt.Errorf("Google speech API error: %w", err)
	}

	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		text := strings.TrimSpace(alts[0].GetTranscript())
		if text == "" {
			continue
		}
		return Transcript{
			Text:       text,
			Confidence: float64(alts[0].GetConfidence()),
			Provider:   r.Name(),
		}, nil
	}

	return Transcript{}, ErrNoSpeech
}

func (r *GoogleRecognizer) buildRequest(audio Audio) (*speechpb.RecognizeRequest, error) {
	cfg := &speechpb.RecognitionConfig{
		LanguageCode:               languageOr(audio, r.config.Language),
		MaxAlternatives:            1,
		EnableAutomaticPunctuation: true,
		Model:                      r.config.GoogleModel,
	}

	switch MediaType(audio.ContentType) {
	case "audio/webm", "video/webm":
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	case "audio/ogg", "audio/opus":
		cfg.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		cfg.SampleRateHertz = 48000
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/flac", "audio/x-flac":
		// encoding and sample rate are read from the file header
		cfg.Encoding = speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	case "audio/l16", "audio/pcm":
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
		cfg.SampleRateHertz = 16000
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAudio, audio.ContentType)
	}

	return &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data},
		},
	}, nil
}

// Name returns the recognizer name
func (r *GoogleRecognizer) Name() string {
	return "google"
}

// IsAvailable checks that a client was created
func (r *GoogleRecognizer) IsAvailable() error {
	if r.client == nil {
		return fmt.Errorf("Google speech client not initialized")
	}
	return nil
}

// Close releases the underlying gRPC connection
func (r *GoogleRecognizer) Close() error {
	return r.client.Close()
}
