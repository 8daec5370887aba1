package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv      = "TUBEDIGEST_CONFIG"
	youtubeAPIKeyEnv   = "YOUTUBE_API_KEY"
	braveAPIKeyEnv     = "BRAVE_API_KEY"
	channelsEnv        = "YOUTUBE_CHANNELS"
	lookbackHoursEnv   = "LOOKBACK_HOURS"
	rssDiscoveryEnv    = "DISCOVERY_RSS"
	fallbackEnv        = "TRANSCRIPT_FALLBACK"
	whisperModelEnv    = "WHISPER_MODEL"
	geminiAPIKeyEnv    = "GEMINI_API_KEY"
	geminiModelEnv     = "GEMINI_MODEL"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
	dataDirEnv         = "DATA_DIR"
	logLevelEnv        = "LOG_LEVEL"
	sendTextEnv        = "SEND_TEXT_SUMMARY"
	sendTxtDocEnv      = "SEND_TXT_DOC"
	sendHTMLDocEnv     = "SEND_HTML_DOC"
	sendPDFDocEnv      = "SEND_PDF_DOC"
	sendDocxDocEnv     = "SEND_DOCX_DOC"
	defaultLookbackHrs = 24
)

// FallbackWhisper enables the speech-to-text transcript fallback.
const FallbackWhisper = "whisper"

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Transcript TranscriptConfig `yaml:"transcript"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Storage    StorageConfig    `yaml:"storage"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DiscoveryConfig describes channel sources and provider credentials.
type DiscoveryConfig struct {
	YouTubeAPIKey string   `yaml:"youtubeApiKey"`
	BraveAPIKey   string   `yaml:"braveApiKey"`
	Channels      []string `yaml:"channels"`
	LookbackHours int      `yaml:"lookbackHours"`
	RSSEnabled    bool     `yaml:"rssEnabled"`
}

// TranscriptConfig selects the caption languages and the fallback mode.
type TranscriptConfig struct {
	Fallback     string   `yaml:"fallback"` // "" / "off" / "whisper"
	WhisperModel string   `yaml:"whisperModel"`
	Languages    []string `yaml:"languages"`
}

// GeminiConfig defines how to contact the Gemini API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
	Prompt   string `yaml:"prompt"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// DeliveryConfig holds the independent per-format delivery toggles.
// TextExplicit records that the text toggle was set by the operator, which
// keeps the text summary on even when the HTML document replaces it.
type DeliveryConfig struct {
	TextSummary  bool `yaml:"textSummary"`
	TextExplicit bool `yaml:"-"`
	TxtDoc       bool `yaml:"txtDoc"`
	HTMLDoc      bool `yaml:"htmlDoc"`
	PDFDoc       bool `yaml:"pdfDoc"`
	DocxDoc      bool `yaml:"docxDoc"`
}

// StorageConfig locates the data root holding state and output files.
type StorageConfig struct {
	DataRoot string `yaml:"dataRoot"`
}

// WhisperEnabled reports whether the speech-to-text fallback is configured.
func (t TranscriptConfig) WhisperEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(t.Fallback), FallbackWhisper)
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindDataRoot()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(youtubeAPIKeyEnv); v != "" {
		c.Discovery.YouTubeAPIKey = v
	}
	if v := os.Getenv(braveAPIKeyEnv); v != "" {
		c.Discovery.BraveAPIKey = v
	}
	if v := os.Getenv(channelsEnv); v != "" {
		c.Discovery.Channels = SplitList(v)
	}
	if v := os.Getenv(lookbackHoursEnv); v != "" {
		if hours, err := strconv.Atoi(v); err == nil && hours > 0 {
			c.Discovery.LookbackHours = hours
		} else {
			log.Printf("config: invalid %s=%q, keeping %dh", lookbackHoursEnv, v, c.Discovery.LookbackHours)
		}
	}
	if v := os.Getenv(rssDiscoveryEnv); v != "" {
		c.Discovery.RSSEnabled = parseBool(v)
	}

	if v := os.Getenv(fallbackEnv); v != "" {
		c.Transcript.Fallback = v
	}
	if v := os.Getenv(whisperModelEnv); v != "" {
		c.Transcript.WhisperModel = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(dataDirEnv); v != "" {
		c.Storage.DataRoot = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(sendTextEnv); v != "" {
		c.Delivery.TextSummary = parseBool(v)
		c.Delivery.TextExplicit = true
	}
	if v := os.Getenv(sendTxtDocEnv); v != "" {
		c.Delivery.TxtDoc = parseBool(v)
	}
	if v := os.Getenv(sendHTMLDocEnv); v != "" {
		c.Delivery.HTMLDoc = parseBool(v)
	}
	if v := os.Getenv(sendPDFDocEnv); v != "" {
		c.Delivery.PDFDoc = parseBool(v)
	}
	if v := os.Getenv(sendDocxDocEnv); v != "" {
		c.Delivery.DocxDoc = parseBool(v)
	}
}

// bindDataRoot resolves an empty data root relative to the executable location
// so a packaged binary keeps its state next to itself, not in the cwd.
func (c *Config) bindDataRoot() {
	if c.Storage.DataRoot != "" {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		c.Storage.DataRoot = "."
		return
	}
	c.Storage.DataRoot = filepath.Dir(exe)
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Discovery.YouTubeAPIKey != "" {
		base.Discovery.YouTubeAPIKey = override.Discovery.YouTubeAPIKey
	}
	if override.Discovery.BraveAPIKey != "" {
		base.Discovery.BraveAPIKey = override.Discovery.BraveAPIKey
	}
	if len(override.Discovery.Channels) > 0 {
		base.Discovery.Channels = override.Discovery.Channels
	}
	if override.Discovery.LookbackHours > 0 {
		base.Discovery.LookbackHours = override.Discovery.LookbackHours
	}
	if override.Discovery.RSSEnabled {
		base.Discovery.RSSEnabled = true
	}

	if override.Transcript.Fallback != "" {
		base.Transcript.Fallback = override.Transcript.Fallback
	}
	if override.Transcript.WhisperModel != "" {
		base.Transcript.WhisperModel = override.Transcript.WhisperModel
	}
	if len(override.Transcript.Languages) > 0 {
		base.Transcript.Languages = override.Transcript.Languages
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}
	if override.Gemini.Prompt != "" {
		base.Gemini.Prompt = override.Gemini.Prompt
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.Delivery.TxtDoc {
		base.Delivery.TxtDoc = true
	}
	if override.Delivery.HTMLDoc {
		base.Delivery.HTMLDoc = true
	}
	if override.Delivery.PDFDoc {
		base.Delivery.PDFDoc = true
	}
	if override.Delivery.DocxDoc {
		base.Delivery.DocxDoc = true
	}

	if override.Storage.DataRoot != "" {
		base.Storage.DataRoot = override.Storage.DataRoot
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Discovery: DiscoveryConfig{
			LookbackHours: defaultLookbackHrs,
		},
		Transcript: TranscriptConfig{
			WhisperModel: "base",
			Languages:    []string{"en"},
		},
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta/models",
			Model:    "gemini-1.5-flash",
			Prompt: "Extract the key points from this video transcript. " +
				"Where data fits a table, present it as a pipe table (| column | value |); " +
				"otherwise use plain prose.",
		},
		Delivery: DeliveryConfig{TextSummary: true},
	}
}

// SplitList parses a comma-separated list, dropping empty entries.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
