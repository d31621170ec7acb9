package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"

	"ytaudiobatch/internal/core/domain"
	"ytaudiobatch/internal/core/ports"
)

// DownloaderConfig tunes the download façade. Zero values fall back to
// the documented defaults.
type DownloaderConfig struct {
	// OutputBaseDir is created at construction time if missing.
	OutputBaseDir string

	// SleepInterval and MaxSleepInterval bound the randomized pause
	// between downloads, in seconds.
	SleepInterval    float64
	MaxSleepInterval float64

	// SleepRequests makes the extraction library pause after N requests.
	SleepRequests int

	// RateLimit is a bandwidth cap token, e.g. "500K".
	RateLimit string

	// MaxRetries is the library-internal retry budget.
	MaxRetries int

	// CookiesFile is used only when it exists on disk.
	CookiesFile string
}

func (c *DownloaderConfig) applyDefaults() {
	if c.OutputBaseDir == "" {
		c.OutputBaseDir = "downloads"
	}
	if c.SleepInterval == 0 {
		c.SleepInterval = 5.0
	}
	if c.MaxSleepInterval == 0 {
		c.MaxSleepInterval = 10.0
	}
	if c.SleepRequests == 0 {
		c.SleepRequests = 1
	}
	if c.RateLimit == "" {
		c.RateLimit = "500K"
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
}

var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`^([0-9A-Za-z_-]{11})$`),
}

// extractVideoID pulls an 11-character video ID out of a YouTube URL,
// tolerating watch?v=, short youtu.be paths and bare IDs. Returns ""
// when no ID is present.
func extractVideoID(url string) string {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

// Downloader wraps the extraction library with per-video directory
// layout, pacing, metadata shaping and running counters. Per-video and
// per-channel problems become result values; only construction-time
// configuration problems are errors.
type Downloader struct {
	cfg       DownloaderConfig
	extractor ports.Extractor
	pacer     ports.Pacer
	log       *zap.SugaredLogger
	stats     domain.Stats
}

// NewDownloader validates the configuration, creates the output base
// directory and wires the collaborators.
func NewDownloader(cfg DownloaderConfig, extractor ports.Extractor, pacer ports.Pacer, log *zap.SugaredLogger) (*Downloader, error) {
	cfg.applyDefaults()

	if err := os.MkdirAll(cfg.OutputBaseDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", cfg.OutputBaseDir, err)
	}

	if cfg.CookiesFile != "" {
		if _, err := os.Stat(cfg.CookiesFile); err == nil {
			log.Infof("using cookies from: %s", cfg.CookiesFile)
		} else {
			cfg.CookiesFile = ""
		}
	}

	return &Downloader{
		cfg:       cfg,
		extractor: extractor,
		pacer:     pacer,
		log:       log,
	}, nil
}

// ChannelVideos enumerates a channel and returns canonical watch URLs,
// capped at maxVideos when positive. Enumeration problems are demoted
// to a warning and an empty list; they never fail the batch.
func (d *Downloader) ChannelVideos(ctx context.Context, channelURL string, maxVideos int) []string {
	d.log.Infof("fetching videos from channel: %s", channelURL)

	ids, err := d.extractor.EnumerateVideos(ctx, channelURL, ports.EnumerateOptions{
		MaxVideos:   maxVideos,
		CookiesFile: d.cfg.CookiesFile,
	})
	if err != nil {
		d.log.Errorf("error fetching channel videos: %v", err)
		return nil
	}
	if len(ids) == 0 {
		d.log.Warnf("no videos found in channel: %s", channelURL)
		return nil
	}

	if maxVideos > 0 && len(ids) > maxVideos {
		ids = ids[:maxVideos]
	}
	urls := make([]string, 0, len(ids))
	for _, id := range ids {
		urls = append(urls, "https://www.youtube.com/watch?v="+id)
	}

	d.log.Infof("found %d videos in channel", len(urls))
	return urls
}

// DownloadVideoAudio downloads one video's audio and writes the shaped
// metadata sidecar beside it. The returned result is tagged success or
// failed; it never escalates per-video problems.
func (d *Downloader) DownloadVideoAudio(ctx context.Context, videoURL, channelName string) domain.VideoResult {
	videoID := extractVideoID(videoURL)
	if videoID == "" {
		d.log.Errorf("could not extract video ID from: %s", videoURL)
		d.stats.Failed++
		return domain.VideoResult{
			VideoURL: videoURL,
			Status:   domain.StatusFailed,
			Error:    "invalid video URL",
		}
	}

	outputDir := filepath.Join(d.cfg.OutputBaseDir, channelName, videoID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		d.stats.Failed++
		return d.failure(videoURL, videoID, channelName, fmt.Errorf("create output directory: %w", err))
	}

	d.log.Infof("downloading: %s from channel: %s", videoID, channelName)
	d.log.Infof("output directory: %s", outputDir)

	info, err := d.extractor.FetchAudio(ctx, videoURL, ports.FetchOptions{
		VideoID:          videoID,
		OutputDir:        outputDir,
		RateLimit:        d.cfg.RateLimit,
		Retries:          d.cfg.MaxRetries,
		SleepInterval:    d.cfg.SleepInterval,
		MaxSleepInterval: d.cfg.MaxSleepInterval,
		SleepRequests:    d.cfg.SleepRequests,
		CookiesFile:      d.cfg.CookiesFile,
	})
	if err != nil {
		d.log.Errorf("failed to download %s: %v", videoID, err)
		d.stats.Failed++
		return d.failure(videoURL, videoID, channelName, err)
	}

	metadata := buildMetadata(info, channelName, videoURL)
	metadataFile := filepath.Join(outputDir, videoID+".json")
	data, err := domain.EncodeIndent(metadata)
	if err == nil {
		err = os.WriteFile(metadataFile, data, 0644)
	}
	if err != nil {
		d.log.Errorf("failed to save metadata for %s: %v", videoID, err)
		d.stats.Failed++
		return d.failure(videoURL, videoID, channelName, err)
	}

	d.log.Infof("successfully downloaded: %s", videoID)
	d.log.Infof("  - audio file: %s", outputDir)
	d.log.Infof("  - metadata: %s", metadataFile)
	d.stats.Successful++

	return domain.VideoResult{
		VideoURL:     videoURL,
		VideoID:      videoID,
		ChannelName:  channelName,
		Status:       domain.StatusSuccess,
		OutputDir:    outputDir,
		MetadataFile: metadataFile,
		Metadata:     metadata,
	}
}

func (d *Downloader) failure(videoURL, videoID, channelName string, err error) domain.VideoResult {
	return domain.VideoResult{
		VideoURL:    videoURL,
		VideoID:     videoID,
		ChannelName: channelName,
		Status:      domain.StatusFailed,
		Error:       err.Error(),
	}
}

// buildMetadata shapes the library's track info into the persisted
// metadata record. Channel count defaults to 2 when the library did not
// report one; file size falls back to the library's approximation.
func buildMetadata(info *ports.TrackInfo, channelName, videoURL string) *domain.Metadata {
	channels := 2
	if info.AudioChannels != nil {
		channels = *info.AudioChannels
	}
	fileSize := info.Filesize
	if fileSize == nil {
		fileSize = info.FilesizeApprox
	}

	return &domain.Metadata{
		VideoID:     info.ID,
		Title:       info.Title,
		ChannelURL:  videoURL,
		ChannelName: channelName,
		UploadDate:  info.UploadDate,
		Uploader:    info.Uploader,
		DurationSec: info.Duration,
		ViewCount:   info.ViewCount,
		LikeCount:   info.LikeCount,
		Description: info.Description,
		Audio: domain.AudioMetadata{
			Codec:      info.ACodec,
			SampleRate: info.ASR,
			BitRate:    info.ABR,
			Channels:   channels,
			Format:     info.Ext,
			FileSize:   fileSize,
		},
		DownloadTimestamp: time.Now().Format("2006-01-02 15:04:05"),
		OriginalURL:       videoURL,
	}
}

// DownloadFromChannel downloads every enumerated video of a channel in
// order, pausing between downloads but not after the last one. It
// returns an error only when the pacing wait is cancelled; everything
// else is captured in the results.
func (d *Downloader) DownloadFromChannel(ctx context.Context, channelURL, channelName string, maxVideos int) ([]domain.VideoResult, error) {
	d.log.Infof("processing channel: %s", channelName)
	d.log.Infof("URL: %s", channelURL)

	videoURLs := d.ChannelVideos(ctx, channelURL, maxVideos)
	if len(videoURLs) == 0 {
		d.log.Warnf("no videos found for channel: %s", channelName)
		return []domain.VideoResult{}, nil
	}

	d.log.Infof("found %d videos to download", len(videoURLs))
	d.stats.TotalVideos += len(videoURLs)

	results := make([]domain.VideoResult, 0, len(videoURLs))
	for i, videoURL := range videoURLs {
		d.log.Infof("--- video %d/%d ---", i+1, len(videoURLs))

		results = append(results, d.DownloadVideoAudio(ctx, videoURL, channelName))

		if i < len(videoURLs)-1 {
			if err := d.pacer.Wait(ctx); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// Stats returns a copy of the running counters.
func (d *Downloader) Stats() domain.Stats {
	return d.stats
}

// PrintStats logs the running counters.
func (d *Downloader) PrintStats() {
	d.log.Infof("download statistics")
	d.log.Infof("total videos: %d", d.stats.TotalVideos)
	d.log.Infof("successful: %d", d.stats.Successful)
	d.log.Infof("failed: %d", d.stats.Failed)
	d.log.Infof("skipped: %d", d.stats.Skipped)
}
