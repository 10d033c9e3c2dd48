package config

import (
	"flag"
	"io"
	"os"
)

// parseEnv overlays the secrets that normally arrive through the
// environment rather than flags or files.
func parseEnv(cfg *Config) {
	if value := os.Getenv("SECRET_KEY"); value != "" {
		cfg.SecretKey = value
	}
	if value := os.Getenv("ASSISTANT_API_KEY"); value != "" {
		cfg.AssistantAPIKey = value
	}
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-addr string                HTTP bind address (e.g. ":8080")
//	-db string                  sqlite database path
//	-questions string           question dataset path (empty = embedded set)
//	-session-ttl duration       session lifetime
//	-assistant-url string       chat-completion endpoint base URL
//	-assistant-model string     chat-completion model name
//	-assistant-timeout duration outbound relay timeout
//	-config string              JSON config file (consumed by parseJSON)
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("cpr-quiz", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "sqlite database path")
	fs.StringVar(&cfg.QuestionsPath, "questions", cfg.QuestionsPath, "question dataset path")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.StringVar(&cfg.AssistantBaseURL, "assistant-url", cfg.AssistantBaseURL, "assistant endpoint base URL")
	fs.StringVar(&cfg.AssistantModel, "assistant-model", cfg.AssistantModel, "assistant model name")
	fs.DurationVar(&cfg.AssistantTimeout, "assistant-timeout", cfg.AssistantTimeout, "assistant request timeout")

	// Registered here so the flag set does not reject it; the value itself
	// is read earlier by parseJSON.
	var configPath string
	fs.StringVar(&configPath, "config", "", "JSON config file path")

	return fs.Parse(args)
}
