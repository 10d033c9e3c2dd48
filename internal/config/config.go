// Package config handles server configuration: defaults, an optional JSON
// overlay, environment variables for secrets, and command-line flags, applied
// in that order.
package config

import "time"

// Config holds runtime settings for the cpr-quiz server.
//
// Fields:
//   - Addr: HTTP bind address.
//   - DatabasePath: sqlite database file path.
//   - QuestionsPath: question dataset file; empty selects the embedded set.
//   - SecretKey: HMAC secret for signing session cookies (HS256).
//   - SessionTTL: server-side session lifetime.
//   - AssistantBaseURL / AssistantModel / AssistantAPIKey: chat-completion
//     endpoint settings for the assistant relay.
//   - AssistantTimeout: outbound HTTP timeout for the relay.
type Config struct {
	Addr             string
	DatabasePath     string
	QuestionsPath    string
	SecretKey        string
	SessionTTL       time.Duration
	AssistantBaseURL string
	AssistantModel   string
	AssistantAPIKey  string
	AssistantTimeout time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in prod.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabasePath = "cpr-quiz.db"
	c.QuestionsPath = ""
	c.SecretKey = "dev-secret-key"
	c.SessionTTL = 24 * time.Hour
	c.AssistantBaseURL = "https://api.openai.com/v1"
	c.AssistantModel = "gpt-3.5-turbo"
	c.AssistantAPIKey = ""
	c.AssistantTimeout = 15 * time.Second
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and command-line flags.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
