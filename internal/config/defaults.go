package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/tempo",
			SQLiteFile: "tempo.db",
		},
		Report: ReportConfig{
			WindowDays: 30,
		},
		Notifications: NotificationsConfig{
			Enabled:  true,
			AutoHide: true,
		},
	}
}
