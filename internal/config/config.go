package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the environment-backed defaults for both entry points.
// CLI flags take precedence over everything here.
type Config struct {
	ChannelsFile  string
	OutputDir     string
	SleepMin      float64
	SleepMax      float64
	SleepRequests int
	RateLimit     string
	MaxRetries    int
	CookiesFile   string
	YtDlpPath     string
	LogLevel      string
}

// Load reads configuration from environment variables, consulting a
// .env file when one exists.
func Load() *Config {
	godotenv.Load()

	return &Config{
		ChannelsFile:  getEnvStr("CHANNELS_FILE", "creative_cc_50_yt_channels.txt"),
		OutputDir:     getEnvStr("OUTPUT_DIR", "downloads"),
		SleepMin:      getEnvFloat("SLEEP_MIN", 5.0),
		SleepMax:      getEnvFloat("SLEEP_MAX", 10.0),
		SleepRequests: getEnvInt("SLEEP_REQUESTS", 1),
		RateLimit:     getEnvStr("RATE_LIMIT", "500K"),
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),
		CookiesFile:   getEnvStr("COOKIES_FILE", ""),
		YtDlpPath:     getEnvStr("YT_DLP_PATH", "yt-dlp"),
		LogLevel:      getEnvStr("LOG_LEVEL", "info"),
	}
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	valStr := getEnvStr(key, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}
	return defaultVal
}
