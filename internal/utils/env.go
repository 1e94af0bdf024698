package utils

import "os"

// SafeEnv returns the value of the environment variable key, falling back
// to fallback when the variable is unset or empty.
func SafeEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
