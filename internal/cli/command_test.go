package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	if !strings.HasPrefix(cmd.Use, "proncoach") {
		t.Errorf("Expected Use to start with 'proncoach', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "Pronunciation") {
		t.Errorf("Expected Short description to mention pronunciation, got %q", cmd.Short)
	}

	for _, name := range []string{
		"config", "listen", "allowed-origins", "session-ttl", "log-level", "log-dev",
		"list-items", "list-models", "archive", "check", "transcribe",
		"items", "enrich", "language", "translate-to",
		"recognizer", "recognizer-model", "recognizer-fallback", "recognizer-fallback-model", "google-credentials",
		"feedback-provider", "feedback-model", "feedback-temperature",
		"tts", "tts-model", "tts-voice", "tts-speed", "audio-dir",
		"history", "no-history",
	} {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestRootCommandArgs(t *testing.T) {
	cmd := CreateRootCommand(NewFlags())

	if err := cmd.Args(cmd, []string{"sheep", "ship"}); err != nil {
		t.Errorf("two args rejected: %v", err)
	}
	if err := cmd.Args(cmd, []string{"a", "b", "c"}); err == nil {
		t.Error("three args accepted")
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	historyFlag := cmd.Flags().Lookup("history")
	if historyFlag == nil {
		t.Fatal("history flag not found")
	}

	expected := filepath.Join(DefaultStateDir(), "history.db")
	if historyFlag.DefValue != expected {
		t.Errorf("Expected default history database %s, got %s", expected, historyFlag.DefValue)
	}

	listenFlag := cmd.Flags().Lookup("listen")
	if listenFlag == nil || listenFlag.DefValue != "127.0.0.1:8080" {
		t.Errorf("unexpected listen flag: %+v", listenFlag)
	}
}

func TestInitConfig(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		check     func(t *testing.T)
	}{
		{
			name: "with config file",
			setupFunc: func(t *testing.T) string {
				cfgPath := filepath.Join(t.TempDir(), "test-config.yaml")
				content := `server:
  listen: 0.0.0.0:9000
feedback:
  provider: openai
openai:
  api_key: test-key`
				if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			check: func(t *testing.T) {
				if viper.GetString("server.listen") != "0.0.0.0:9000" {
					t.Errorf("server.listen = %q", viper.GetString("server.listen"))
				}
				if viper.GetString("feedback.provider") != "openai" {
					t.Errorf("feedback.provider = %q", viper.GetString("feedback.provider"))
				}
			},
		},
		{
			name:      "without config file",
			setupFunc: func(t *testing.T) string { return "" },
			check:     func(t *testing.T) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()

			InitConfig(tt.setupFunc(t))
			tt.check(t)

			t.Setenv("PRONCOACH_TEST_VAR", "test-value")
			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}
		})
	}
}

func TestGetOpenAIKey(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{"from environment", "env-test-key", "config-test-key", "env-test-key"},
		{"from config when no env", "", "config-test-key", "config-test-key"},
		{"empty when neither set", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("OPENAI_API_KEY", tt.envKey)

			if tt.configKey != "" {
				viper.Set("openai.api_key", tt.configKey)
			}

			if got := GetOpenAIKey(); got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetGeminiKey(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "google-key")
	if got := GetGeminiKey(); got != "google-key" {
		t.Errorf("GetGeminiKey() = %q, want GOOGLE_API_KEY fallback", got)
	}

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	if got := GetGeminiKey(); got != "gemini-key" {
		t.Errorf("GetGeminiKey() = %q, want GEMINI_API_KEY", got)
	}

	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	viper.Set("feedback.gemini_key", "config-key")
	if got := GetGeminiKey(); got != "config-key" {
		t.Errorf("GetGeminiKey() = %q, want config key", got)
	}
}

func TestBindFlagsToViper(t *testing.T) {
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	cmd.Flags().Set("listen", ":9090")
	cmd.Flags().Set("feedback-provider", "openai")
	cmd.Flags().Set("tts-model", "tts-1-hd")
	cmd.Flags().Set("no-history", "true")
	cmd.Flags().Set("recognizer-fallback-model", "gpt-4o-mini-transcribe")

	bindFlagsToViper(cmd)

	if viper.GetString("server.listen") != ":9090" {
		t.Errorf("Expected server.listen to be :9090, got %s", viper.GetString("server.listen"))
	}

	if viper.GetString("feedback.provider") != "openai" {
		t.Errorf("Expected feedback.provider to be openai, got %s", viper.GetString("feedback.provider"))
	}

	if viper.GetString("audio.openai_model") != "tts-1-hd" {
		t.Errorf("Expected audio.openai_model to be tts-1-hd, got %s", viper.GetString("audio.openai_model"))
	}

	if !viper.GetBool("history.disabled") {
		t.Error("Expected history.disabled to be true")
	}

	if viper.GetString("recognition.fallback_model") != "gpt-4o-mini-transcribe" {
		t.Errorf("Expected recognition.fallback_model to be gpt-4o-mini-transcribe, got %s", viper.GetString("recognition.fallback_model"))
	}

	// Unchanged flags still report their defaults
	if viper.GetString("recognition.model") != "whisper-1" {
		t.Errorf("Expected recognition.model default whisper-1, got %s", viper.GetString("recognition.model"))
	}
}
