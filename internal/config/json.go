package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// jsonConfig is the DTO for the optional JSON config file. Duration fields
// accept both "24h"-style strings and integer nanoseconds.
type jsonConfig struct {
	Addr             string   `json:"addr"`
	DatabasePath     string   `json:"database_path"`
	QuestionsPath    string   `json:"questions_path"`
	SecretKey        string   `json:"secret_key"`
	SessionTTL       duration `json:"session_ttl"`
	AssistantBaseURL string   `json:"assistant_base_url"`
	AssistantModel   string   `json:"assistant_model"`
	AssistantAPIKey  string   `json:"assistant_api_key"`
	AssistantTimeout duration `json:"assistant_timeout"`
}

type duration time.Duration

func (d *duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case float64:
		*d = duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = duration(parsed)
		return nil
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
}

// parseJSON overlays values from the file named by -config, if present in
// args. Absent file path means no overlay.
func parseJSON(cfg *Config, args []string) error {
	path := configFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var overlay jsonConfig
	if err := json.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if overlay.Addr != "" {
		cfg.Addr = overlay.Addr
	}
	if overlay.DatabasePath != "" {
		cfg.DatabasePath = overlay.DatabasePath
	}
	if overlay.QuestionsPath != "" {
		cfg.QuestionsPath = overlay.QuestionsPath
	}
	if overlay.SecretKey != "" {
		cfg.SecretKey = overlay.SecretKey
	}
	if overlay.SessionTTL != 0 {
		cfg.SessionTTL = time.Duration(overlay.SessionTTL)
	}
	if overlay.AssistantBaseURL != "" {
		cfg.AssistantBaseURL = overlay.AssistantBaseURL
	}
	if overlay.AssistantModel != "" {
		cfg.AssistantModel = overlay.AssistantModel
	}
	if overlay.AssistantAPIKey != "" {
		cfg.AssistantAPIKey = overlay.AssistantAPIKey
	}
	if overlay.AssistantTimeout != 0 {
		cfg.AssistantTimeout = time.Duration(overlay.AssistantTimeout)
	}
	return nil
}

// configFilePath scans args by hand for -config/--config so the JSON overlay
// can be applied before the full flag set runs.
func configFilePath(args []string) string {
	for idx := 0; idx < len(args); idx++ {
		arg := args[idx]
		switch {
		case arg == "-config" || arg == "--config":
			if idx+1 < len(args) {
				return args[idx+1]
			}
		case strings.HasPrefix(arg, "-config="):
			return strings.TrimPrefix(arg, "-config=")
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
