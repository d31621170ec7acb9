// Command sample-cli runs a short sampling pass over the first few
// channels of the list to verify pacing and download health before
// committing to a full batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"ytaudiobatch/internal/adapters/resultstore"
	"ytaudiobatch/internal/adapters/ytdlp"
	"ytaudiobatch/internal/channellist"
	"ytaudiobatch/internal/config"
	"ytaudiobatch/internal/core/domain"
	"ytaudiobatch/internal/service"
	"ytaudiobatch/pkg/logger"
)

func main() {
	cfg := config.Load()

	channelsFile := flag.String("channels-file", cfg.ChannelsFile, "Path to channel list file")
	outputDir := flag.String("output-dir", "test_downloads", "Base output directory")
	sampleChannels := flag.Int("channels", 2, "Number of channels to sample")
	maxVideos := flag.Int("max-videos", 3, "Maximum videos per channel")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	channels, err := channellist.Read(*channelsFile, log)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	log.Infof("testing with sample channels")
	log.Infof("channels to test: %d", *sampleChannels)
	log.Infof("max videos per channel: %d", *maxVideos)
	log.Infof("sleep interval: %.0f-%.0f seconds", cfg.SleepMin, cfg.SleepMax)
	log.Infof("rate limit: %s", cfg.RateLimit)

	pacer := service.NewSleepPacer(cfg.SleepMin, cfg.SleepMax, log)
	extractor := ytdlp.NewExtractor(cfg.YtDlpPath)

	downloader, err := service.NewDownloader(service.DownloaderConfig{
		OutputBaseDir:    *outputDir,
		SleepInterval:    cfg.SleepMin,
		MaxSleepInterval: cfg.SleepMax,
		SleepRequests:    cfg.SleepRequests,
		RateLimit:        cfg.RateLimit,
		MaxRetries:       cfg.MaxRetries,
	}, extractor, pacer, log)
	if err != nil {
		log.Errorf("failed to initialize downloader: %v", err)
		os.Exit(1)
	}

	// The sampling harness exits cleanly on interrupt.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orchestrator := service.NewOrchestrator(downloader, resultstore.NewStore(log), log)
	results, err := orchestrator.Run(ctx, channels, service.RunOptions{
		MaxChannels:         *sampleChannels,
		MaxVideosPerChannel: *maxVideos,
		FinalPath:           "test_results.json",
	})
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	log.Infof("per-channel summary:")
	results.Each(func(name string, r domain.ChannelResult) {
		if r.IsError() {
			log.Infof("  %s: ERROR - %s", name, r.Error)
		} else {
			log.Infof("  %s: %d/%d successful", name, r.Successful, r.TotalVideos)
		}
	})

	if reportThrottling(results, log) {
		log.Warnf("403 errors detected!")
		log.Warnf("recommendations:")
		log.Warnf("1. increase sleep interval: SLEEP_MIN=8 SLEEP_MAX=15")
		log.Warnf("2. decrease rate limit: RATE_LIMIT=300K")
		log.Warnf("3. use browser cookies: COOKIES_FILE=cookies.txt")
		log.Warnf("4. wait a bit and retry")
	} else {
		log.Infof("test passed - no 403 errors detected!")
		log.Infof("you can now proceed with the full batch: batch-cli")
	}

	log.Infof("test results saved to: test_results.json")
	log.Infof("downloaded files in: %s/", *outputDir)
}

// reportThrottling scans failures for provider 403 responses, the early
// sign of rate-limit trouble a sampling run is meant to catch.
func reportThrottling(results *domain.BatchResults, log *zap.SugaredLogger) bool {
	found := false
	results.Each(func(name string, r domain.ChannelResult) {
		for _, v := range r.Videos {
			if v.Status == domain.StatusFailed && strings.Contains(v.Error, "403") {
				found = true
				log.Warnf("403 error detected for: %s", v.VideoURL)
			}
		}
	})
	return found
}
