package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ChannelsFile != "creative_cc_50_yt_channels.txt" {
		t.Fatalf("unexpected default channels file: %q", cfg.ChannelsFile)
	}
	if cfg.OutputDir != "downloads" {
		t.Fatalf("unexpected default output dir: %q", cfg.OutputDir)
	}
	if cfg.SleepMin != 5.0 || cfg.SleepMax != 10.0 {
		t.Fatalf("unexpected sleep defaults: %v-%v", cfg.SleepMin, cfg.SleepMax)
	}
	if cfg.RateLimit != "500K" {
		t.Fatalf("unexpected default rate limit: %q", cfg.RateLimit)
	}
	if cfg.MaxRetries != 3 || cfg.SleepRequests != 1 {
		t.Fatalf("unexpected retry/sleep-requests defaults: %d %d", cfg.MaxRetries, cfg.SleepRequests)
	}
	if cfg.YtDlpPath != "yt-dlp" {
		t.Fatalf("unexpected default binary path: %q", cfg.YtDlpPath)
	}
}

func TestLoadReadsEnvOverrides(t *testing.T) {
	t.Setenv("OUTPUT_DIR", "/data/audio")
	t.Setenv("SLEEP_MIN", "8.5")
	t.Setenv("RATE_LIMIT", "300K")
	t.Setenv("MAX_RETRIES", "5")

	cfg := Load()
	if cfg.OutputDir != "/data/audio" {
		t.Fatalf("OUTPUT_DIR override lost: %q", cfg.OutputDir)
	}
	if cfg.SleepMin != 8.5 {
		t.Fatalf("SLEEP_MIN override lost: %v", cfg.SleepMin)
	}
	if cfg.RateLimit != "300K" {
		t.Fatalf("RATE_LIMIT override lost: %q", cfg.RateLimit)
	}
	if cfg.MaxRetries != 5 {
		t.Fatalf("MAX_RETRIES override lost: %d", cfg.MaxRetries)
	}
}

func TestLoadIgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("SLEEP_MIN", "not-a-number")
	t.Setenv("MAX_RETRIES", "many")

	cfg := Load()
	if cfg.SleepMin != 5.0 {
		t.Fatalf("bad SLEEP_MIN should fall back to default, got %v", cfg.SleepMin)
	}
	if cfg.MaxRetries != 3 {
		t.Fatalf("bad MAX_RETRIES should fall back to default, got %d", cfg.MaxRetries)
	}
}
