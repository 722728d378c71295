package config

// AnalyticsConfig holds resolved configuration for the external analytics
// backend caller (pkg/analytics), mirroring the teacher's GitHubConfig's
// env-var-name-not-secret-value pattern.
type AnalyticsConfig struct {
	// TokenEnv names the environment variable holding the backend's API
	// token. The token value itself never appears in configuration files.
	TokenEnv string `yaml:"token_env"`

	// BaseURL is the analytics backend endpoint. The CLI passes it to
	// analytics.NewHTTPCaller when intel_source is dune; the mock source
	// ignores it.
	BaseURL string `yaml:"base_url"`
}

// GatewayConfig holds resolved configuration for the live exchange gateway
// health probe and executor.
type GatewayConfig struct {
	// TokenEnv names the environment variable holding the gateway's API key.
	TokenEnv string `yaml:"token_env"`

	// BaseURL is the live exchange gateway endpoint.
	BaseURL string `yaml:"base_url"`

	// MaxGasCeiling is the maximum gas the live executor's quote simulation
	// may report before the episode is treated as a safety block.
	MaxGasCeiling int64 `yaml:"max_gas_ceiling"`
}

func resolveAnalyticsConfig(sys *SystemYAMLConfig) *AnalyticsConfig {
	cfg := &AnalyticsConfig{TokenEnv: "ANALYTICS_API_TOKEN"}
	if sys == nil || sys.Analytics == nil {
		return cfg
	}
	if sys.Analytics.TokenEnv != "" {
		cfg.TokenEnv = sys.Analytics.TokenEnv
	}
	if sys.Analytics.BaseURL != "" {
		cfg.BaseURL = sys.Analytics.BaseURL
	}
	return cfg
}

func resolveGatewayConfig(sys *SystemYAMLConfig) *GatewayConfig {
	cfg := &GatewayConfig{TokenEnv: "GATEWAY_API_TOKEN", MaxGasCeiling: 2_000_000}
	if sys == nil || sys.Gateway == nil {
		return cfg
	}
	if sys.Gateway.TokenEnv != "" {
		cfg.TokenEnv = sys.Gateway.TokenEnv
	}
	if sys.Gateway.BaseURL != "" {
		cfg.BaseURL = sys.Gateway.BaseURL
	}
	if sys.Gateway.MaxGasCeiling > 0 {
		cfg.MaxGasCeiling = sys.Gateway.MaxGasCeiling
	}
	return cfg
}
