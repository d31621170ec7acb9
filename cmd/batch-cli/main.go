package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"ytaudiobatch/internal/adapters/resultstore"
	"ytaudiobatch/internal/adapters/ytdlp"
	"ytaudiobatch/internal/channellist"
	"ytaudiobatch/internal/config"
	"ytaudiobatch/internal/service"
	"ytaudiobatch/pkg/logger"
)

func main() {
	cfg := config.Load()

	channelsFile := flag.String("channels-file", cfg.ChannelsFile, "Path to channel list file")
	outputDir := flag.String("output-dir", cfg.OutputDir, "Base output directory")
	sleepMin := flag.Float64("sleep-min", cfg.SleepMin, "Minimum sleep interval between downloads in seconds")
	sleepMax := flag.Float64("sleep-max", cfg.SleepMax, "Maximum sleep interval between downloads in seconds")
	rateLimit := flag.String("rate-limit", cfg.RateLimit, "Download rate limit, e.g. 500K, 1M")
	maxVideos := flag.Int("max-videos-per-channel", 0, "Maximum videos to download per channel (0 = all)")
	maxChannels := flag.Int("max-channels", 0, "Maximum channels to process (0 = all)")
	cookiesFile := flag.String("cookies-file", cfg.CookiesFile, "Path to browser cookies file (optional, helps avoid 403)")
	startFrom := flag.Int("start-from", 0, "Start from channel number (0-indexed, for resuming)")
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
	if len(channels) == 0 {
		log.Errorf("no channels to process!")
		os.Exit(1)
	}

	pacer := service.NewSleepPacer(*sleepMin, *sleepMax, log)
	extractor := ytdlp.NewExtractor(cfg.YtDlpPath)

	downloader, err := service.NewDownloader(service.DownloaderConfig{
		OutputBaseDir:    *outputDir,
		SleepInterval:    *sleepMin,
		MaxSleepInterval: *sleepMax,
		SleepRequests:    cfg.SleepRequests,
		RateLimit:        *rateLimit,
		MaxRetries:       cfg.MaxRetries,
		CookiesFile:      *cookiesFile,
	}, extractor, pacer, log)
	if err != nil {
		log.Errorf("failed to initialize downloader: %v", err)
		os.Exit(1)
	}

	log.Infof("batch download configuration")
	log.Infof("channels to process: %d", len(channels))
	log.Infof("output directory: %s", *outputDir)
	log.Infof("sleep interval: %.1f-%.1f seconds", *sleepMin, *sleepMax)
	log.Infof("rate limit: %s", *rateLimit)
	if *maxVideos > 0 {
		log.Infof("max videos per channel: %d", *maxVideos)
	} else {
		log.Infof("max videos per channel: all")
	}
	if *cookiesFile != "" {
		log.Infof("cookies file: %s", *cookiesFile)
	}

	orchestrator := service.NewOrchestrator(downloader, resultstore.NewStore(log), log)

	// No interrupt handling here: an interrupted batch loses only the
	// in-flight video, prior checkpoints on disk remain valid.
	results, err := orchestrator.Run(context.Background(), channels, service.RunOptions{
		MaxChannels:         *maxChannels,
		StartFrom:           *startFrom,
		MaxVideosPerChannel: *maxVideos,
		CheckpointPath:      "batch_results_checkpoint.json",
		FinalPath:           "batch_results_final.json",
	})
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}

	log.Infof("all done! check the results in:")
	log.Infof("  - downloads: %s/", *outputDir)
	log.Infof("  - results: batch_results_final.json (%d channels)", results.Len())
}
