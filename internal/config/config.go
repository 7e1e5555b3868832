package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Identity IdentityConfig
	Serial   SerialConfig
	UDP      UDPConfig
	HTTP     HTTPConfig
	Traffic  TrafficConfig
}

// IdentityConfig holds the sender identity stamped into frame headers.
type IdentityConfig struct {
	SystemID    uint8
	ComponentID uint8
}

// SerialConfig holds serial transport settings.
type SerialConfig struct {
	Port string
	Baud int
}

// UDPConfig holds UDP transport settings.
type UDPConfig struct {
	Addr string
}

// HTTPConfig holds the streaming/metrics server settings.
type HTTPConfig struct {
	Addr string
}

// TrafficConfig holds send-loop settings.
type TrafficConfig struct {
	RateHz         float64
	Duration       time.Duration
	CRCMode        string
	StaleThreshold time.Duration
}

// Load reads configuration from environment variables, falling back to defaults.
func Load() Config {
	return Config{
		Identity: IdentityConfig{
			SystemID:    getEnvUint8("MAVFORGE_SYSTEM_ID", 100),
			ComponentID: getEnvUint8("MAVFORGE_COMPONENT_ID", 190),
		},
		Serial: SerialConfig{
			Port: getEnvString("MAVFORGE_SERIAL_PORT", ""),
			Baud: getEnvInt("MAVFORGE_BAUD", 57600),
		},
		UDP: UDPConfig{
			Addr: getEnvString("MAVFORGE_UDP_ADDR", "127.0.0.1:14550"),
		},
		HTTP: HTTPConfig{
			Addr: getEnvString("MAVFORGE_HTTP_ADDR", ":8070"),
		},
		Traffic: TrafficConfig{
			RateHz:         getEnvFloat("MAVFORGE_RATE_HZ", 1.0),
			Duration:       getEnvDuration("MAVFORGE_DURATION", 60*time.Second),
			CRCMode:        getEnvString("MAVFORGE_CRC_MODE", "seeded"),
			StaleThreshold: getEnvDuration("MAVFORGE_STALE_THRESHOLD", 5*time.Second),
		},
	}
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvUint8(key string, defaultVal uint8) uint8 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseUint(v, 10, 8)
	if err != nil {
		return defaultVal
	}
	return uint8(n)
}

func getEnvFloat(key string, defaultVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
