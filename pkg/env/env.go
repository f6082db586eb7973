// Package env reads the handful of plain environment variables that sit
// outside the TRADEFLOW_-prefixed config block, such as the PORT variable a
// hosting platform injects.
package env

import "os"

// Get returns the named variable, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
