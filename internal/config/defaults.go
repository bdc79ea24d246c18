package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeoutSec <= 0 {
		cfg.Server.ReadTimeoutSec = 10
	}
	if cfg.Server.WriteTimeoutSec <= 0 {
		cfg.Server.WriteTimeoutSec = 30
	}
	if cfg.Server.ShutdownTimeoutSec <= 0 {
		cfg.Server.ShutdownTimeoutSec = 10
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}
	if cfg.Seed.Source == "" {
		cfg.Seed.Source = "builtin"
	}
	if cfg.Seed.DatabasePath == "" {
		cfg.Seed.DatabasePath = "/usr/local/var/crime360/data/crime360.db"
	}
	if cfg.Search.DefaultSize == 0 {
		cfg.Search.DefaultSize = 10
	}
	if cfg.Search.MaxSize == 0 {
		cfg.Search.MaxSize = 100
	}
	if cfg.Search.SuggestionDistance == 0 {
		cfg.Search.SuggestionDistance = 2
	}
	if cfg.Search.MaxSuggestions == 0 {
		cfg.Search.MaxSuggestions = 5
	}
	if cfg.Faces.DefaultThreshold == 0 {
		cfg.Faces.DefaultThreshold = 0.8
	}
	if cfg.Faces.FeatureDimensions == 0 {
		cfg.Faces.FeatureDimensions = 5
	}
	if cfg.Faces.CacheSize == 0 {
		cfg.Faces.CacheSize = 1000
	}
	if cfg.Analytics.TopKeywords == 0 {
		cfg.Analytics.TopKeywords = 10
	}
	if cfg.Analytics.CacheTTLSec == 0 {
		cfg.Analytics.CacheTTLSec = 300
	}
}
