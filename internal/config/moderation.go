package config

import (
	"os"
	"strconv"
)

// ModerationConfig holds the external text-classifier configuration
type ModerationConfig struct {
	APIKey    string  `json:"-"` // Never serialize
	BaseURL   string  `json:"baseUrl"`
	Threshold float64 `json:"threshold"` // Confidence at or above which text is inappropriate
	TimeoutMS int     `json:"timeoutMs"`
}

// DefaultModerationConfig returns the default moderation configuration
func DefaultModerationConfig() *ModerationConfig {
	threshold := 0.7
	if v := os.Getenv("MODERATION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			threshold = f
		}
	}

	return &ModerationConfig{
		APIKey:    os.Getenv("MODERATION_API_KEY"),
		BaseURL:   getEnvOrDefault("MODERATION_BASE_URL", "https://api.moderatecontent.io/v1"),
		Threshold: threshold,
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the classifier API is configured
func (c *ModerationConfig) IsEnabled() bool {
	return c.APIKey != ""
}
