package internal

import (
	"os"

	"github.com/google/uuid"
)

// GenerateRunID returns a fresh id that tags one processing run in logs and
// diagnostics events.
func GenerateRunID() string {
	return uuid.New().String()
}

// GenerateClientID names this process towards external services.
func GenerateClientID() string {
	host, err := os.Hostname()
	if err != nil {
		GetLogger().Warn(ComponentGeneral, "Error getting hostname: %v", err)
		host = "unknown"
	}
	return DefaultAppName + "-" + host
}
