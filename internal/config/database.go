// internal/config/database.go
package config

import "fmt"

// DSN builds the postgres connection string. Timestamps are stored in the
// store's local timezone so daily sales reports roll over at local midnight.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode, d.TimeZone,
	)
}
