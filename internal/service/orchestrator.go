package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ytaudiobatch/internal/core/domain"
	"ytaudiobatch/internal/core/ports"
)

// ChannelDownloader is what the orchestrator needs from the download
// façade.
type ChannelDownloader interface {
	DownloadFromChannel(ctx context.Context, channelURL, channelName string, maxVideos int) ([]domain.VideoResult, error)
	PrintStats()
}

// RunOptions configure one batch run.
type RunOptions struct {
	// MaxChannels caps how many channels are processed. 0 means all.
	// Applied before StartFrom, matching the CLI contract.
	MaxChannels int

	// StartFrom skips the first N channels, for manual resuming.
	StartFrom int

	// MaxVideosPerChannel caps downloads per channel. 0 means all.
	MaxVideosPerChannel int

	// CheckpointPath is overwritten after every channel. Empty disables
	// checkpointing.
	CheckpointPath string

	// FinalPath receives the complete results once at the end.
	FinalPath string
}

// Orchestrator drives the downloader across many channels, checkpoints
// results after each one and produces the final summary. A failing
// channel is recorded and skipped, never aborting the batch.
type Orchestrator struct {
	downloader ChannelDownloader
	store      ports.ResultStore
	log        *zap.SugaredLogger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(downloader ChannelDownloader, store ports.ResultStore, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		downloader: downloader,
		store:      store,
		log:        log,
	}
}

// Run processes the channel list in file order and returns the
// accumulated results mapping. It fails only when no channels remain
// after applying the cap and offset.
func (o *Orchestrator) Run(ctx context.Context, channels []domain.ChannelEntry, opts RunOptions) (*domain.BatchResults, error) {
	if opts.MaxChannels > 0 && len(channels) > opts.MaxChannels {
		channels = channels[:opts.MaxChannels]
	}
	if opts.StartFrom > 0 {
		o.log.Infof("starting from channel #%d", opts.StartFrom+1)
		if opts.StartFrom >= len(channels) {
			channels = nil
		} else {
			channels = channels[opts.StartFrom:]
		}
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channels to process")
	}

	runID := uuid.New().String()
	o.log.Infof("[RUN %s] processing %d channels", runID, len(channels))

	results := domain.NewBatchResults()
	type failedChannel struct {
		name   string
		reason string
	}
	var failedChannels []failedChannel

	for i, ch := range channels {
		o.log.Infof("[RUN %s] channel %d/%d: %s", runID, i+1, len(channels), ch.Name)

		videos, err := o.downloader.DownloadFromChannel(ctx, ch.URL, ch.Name, opts.MaxVideosPerChannel)
		if err != nil {
			o.log.Errorf("error processing channel %s: %v", ch.Name, err)
			failedChannels = append(failedChannels, failedChannel{name: ch.Name, reason: err.Error()})
			results.Set(ch.Name, domain.NewChannelError(ch.URL, err))
		} else {
			results.Set(ch.Name, domain.NewChannelResult(ch.URL, videos))
		}

		o.checkpoint(ctx, opts.CheckpointPath, results)

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
	}

	o.log.Infof("[RUN %s] batch processing complete", runID)
	o.downloader.PrintStats()

	if len(failedChannels) > 0 {
		o.log.Warnf("failed channels:")
		for _, ch := range failedChannels {
			o.log.Warnf("  - %s: %s", ch.name, ch.reason)
		}
	}

	if opts.FinalPath != "" {
		if err := o.store.Save(ctx, opts.FinalPath, results); err != nil {
			o.log.Errorf("error saving results: %v", err)
		}
	}

	return results, nil
}

// checkpoint persists the accumulated results so far. Best-effort: a
// write failure is logged, never escalated.
func (o *Orchestrator) checkpoint(ctx context.Context, path string, results *domain.BatchResults) {
	if path == "" {
		return
	}
	if err := o.store.Save(ctx, path, results); err != nil {
		o.log.Errorf("error saving results: %v", err)
	}
}
