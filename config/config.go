package config

import "fmt"

// InitializeConfig brings up every backing service a binary needs. The
// logger comes first so later failures are reportable; the database
// before the caches and buses that publish rows read from it.
func InitializeConfig() error {
	NewLoggerService()

	if err := ConnectDatabase(); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}

	if err := NewCacheService(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}

	if err := NewInfluxDB(); err != nil {
		return fmt.Errorf("influxdb: %w", err)
	}

	if err := ConnectNats(); err != nil {
		return fmt.Errorf("nats: %w", err)
	}

	return nil
}
