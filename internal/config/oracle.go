package config

import "os"

// OracleConfig holds configuration for the question-generating oracle
type OracleConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultOracleConfig returns the oracle configuration from the environment.
func DefaultOracleConfig() *OracleConfig {
	return &OracleConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Model:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		// Question generation blocks the patient, so keep the timeout tight.
		TimeoutMS: 10000,
	}
}

// IsEnabled returns true if the oracle API is configured
func (c *OracleConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint for the model
func (c *OracleConfig) ModelEndpoint() string {
	return c.BaseURL + "/" + c.Model + ":generateContent"
}
