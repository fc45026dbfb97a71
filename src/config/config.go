package config

import (
	"os"
	"strconv"
	"time"
)

var (
	API_ENV      = os.Getenv("API_ENV")
	API_HOST     = os.Getenv("API_HOST")
	APP_HOST     = os.Getenv("APP_HOST")
	BACKEND_HOST = os.Getenv("BACKEND_API_HOST")
)

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_FORMAT = "2006-01-02"

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// BackendTimeout bounds every call to the venue backend. A submit that
// outlives it is treated as a transient failure and rolled back.
func BackendTimeout() time.Duration {
	return envDuration("BACKEND_TIMEOUT_MS", 10*time.Second)
}

// ScanCooldown is the enforced gap between accepted decode events.
func ScanCooldown() time.Duration {
	return envDuration("SCAN_COOLDOWN_MS", 400*time.Millisecond)
}

// ListToastTTL is how long a toast stays visible on the roster list view.
func ListToastTTL() time.Duration {
	return envDuration("TOAST_TTL_LIST_MS", 5*time.Second)
}

// ScannerToastTTL is shorter than the list TTL so feedback keeps pace
// with rapid sequential scans.
func ScannerToastTTL() time.Duration {
	return envDuration("TOAST_TTL_SCANNER_MS", 2*time.Second)
}

func RosterRefreshEvery() time.Duration {
	return envDuration("ROSTER_REFRESH_MS", 5*time.Minute)
}

func TodayDate() string {
	return time.Now().Format(DATE_FORMAT)
}
