package model

import (
	"fmt"
	"time"
)

// ProcessStatus holds the runtime facts shown by /status and the health endpoint.
type ProcessStatus struct {
	StartedAt   time.Time
	Environment string
	Version     string
}

func NewProcessStatus(startedAt time.Time, environment, version string) ProcessStatus {
	if environment == "" {
		environment = "production"
	}
	if version == "" {
		version = "dev"
	}
	return ProcessStatus{
		StartedAt:   startedAt.UTC(),
		Environment: environment,
		Version:     version,
	}
}

func (s ProcessStatus) Uptime(now time.Time) time.Duration {
	d := now.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// FormatUptime renders a duration as "1d 2h 3m".
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}
