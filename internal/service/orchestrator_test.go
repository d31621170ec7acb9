package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"ytaudiobatch/internal/core/domain"
)

type fakeChannelDownloader struct {
	results map[string][]domain.VideoResult
	errs    map[string]error
	calls   []string
}

func (f *fakeChannelDownloader) DownloadFromChannel(ctx context.Context, channelURL, channelName string, maxVideos int) ([]domain.VideoResult, error) {
	f.calls = append(f.calls, channelName)
	if err, ok := f.errs[channelName]; ok {
		return nil, err
	}
	return f.results[channelName], nil
}

func (f *fakeChannelDownloader) PrintStats() {}

// snapshotStore marshals at save time so later mutations of the shared
// results mapping cannot rewrite history.
type snapshotStore struct {
	saves map[string][][]byte
}

func newSnapshotStore() *snapshotStore {
	return &snapshotStore{saves: make(map[string][][]byte)}
}

func (s *snapshotStore) Save(ctx context.Context, path string, results *domain.BatchResults) error {
	data, err := domain.EncodeIndent(results)
	if err != nil {
		return err
	}
	s.saves[path] = append(s.saves[path], data)
	return nil
}

var testChannels = []domain.ChannelEntry{
	{Name: "leon", URL: "https://x/channel/AAA"},
	{Name: "foo", URL: "https://x/channel/BBB"},
	{Name: "bar", URL: "https://x/channel/CCC"},
}

func success(url string) []domain.VideoResult {
	return []domain.VideoResult{{VideoURL: url, Status: domain.StatusSuccess}}
}

func TestRunProcessesChannelsInOrder(t *testing.T) {
	dl := &fakeChannelDownloader{results: map[string][]domain.VideoResult{
		"leon": success("https://w/1"),
		"foo":  success("https://w/2"),
		"bar":  success("https://w/3"),
	}}
	o := NewOrchestrator(dl, newSnapshotStore(), zap.NewNop().Sugar())

	results, err := o.Run(context.Background(), testChannels, RunOptions{FinalPath: "final.json"})
	if err != nil {
		t.Fatal(err)
	}
	if results.Len() != 3 {
		t.Fatalf("got %d results, want 3", results.Len())
	}
	if fmt.Sprint(dl.calls) != "[leon foo bar]" {
		t.Fatalf("channels processed out of order: %v", dl.calls)
	}
}

func TestRunChannelErrorDoesNotAbortBatch(t *testing.T) {
	dl := &fakeChannelDownloader{
		results: map[string][]domain.VideoResult{
			"leon": success("https://w/1"),
			"bar":  success("https://w/3"),
		},
		errs: map[string]error{"foo": errors.New("enumeration blew up")},
	}
	o := NewOrchestrator(dl, newSnapshotStore(), zap.NewNop().Sugar())

	results, err := o.Run(context.Background(), testChannels, RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dl.calls) != 3 {
		t.Fatalf("batch stopped early: %v", dl.calls)
	}
	r, ok := results.Get("foo")
	if !ok || !r.IsError() {
		t.Fatalf("expected error entry for foo: %+v", r)
	}
	if r.ChannelURL != "https://x/channel/BBB" || r.Error != "enumeration blew up" {
		t.Fatalf("unexpected error entry: %+v", r)
	}
	if r2, _ := results.Get("bar"); r2.IsError() {
		t.Fatal("channel after the failing one should still be processed")
	}
}

func TestRunCheckpointsAfterEveryChannel(t *testing.T) {
	dl := &fakeChannelDownloader{results: map[string][]domain.VideoResult{
		"leon": success("https://w/1"),
		"foo":  success("https://w/2"),
		"bar":  success("https://w/3"),
	}}
	store := newSnapshotStore()
	o := NewOrchestrator(dl, store, zap.NewNop().Sugar())

	if _, err := o.Run(context.Background(), testChannels, RunOptions{
		CheckpointPath: "checkpoint.json",
		FinalPath:      "final.json",
	}); err != nil {
		t.Fatal(err)
	}

	checkpoints := store.saves["checkpoint.json"]
	if len(checkpoints) != 3 {
		t.Fatalf("got %d checkpoints, want one per channel", len(checkpoints))
	}

	// Checkpoint k must serialize exactly channels 1..k.
	for k, names := range [][]string{{"leon"}, {"leon", "foo"}, {"leon", "foo", "bar"}} {
		want := domain.NewBatchResults()
		for _, n := range names {
			var url string
			for _, ch := range testChannels {
				if ch.Name == n {
					url = ch.URL
				}
			}
			want.Set(n, domain.NewChannelResult(url, dl.results[n]))
		}
		wantData, err := domain.EncodeIndent(want)
		if err != nil {
			t.Fatal(err)
		}
		if string(checkpoints[k]) != string(wantData) {
			t.Fatalf("checkpoint %d mismatch:\ngot  %s\nwant %s", k+1, checkpoints[k], wantData)
		}
	}

	finals := store.saves["final.json"]
	if len(finals) != 1 {
		t.Fatalf("got %d final saves, want 1", len(finals))
	}
	if string(finals[0]) != string(checkpoints[2]) {
		t.Fatal("final file must equal the last checkpoint")
	}
}

func TestRunAppliesMaxChannelsThenStartFrom(t *testing.T) {
	dl := &fakeChannelDownloader{results: map[string][]domain.VideoResult{}}
	o := NewOrchestrator(dl, newSnapshotStore(), zap.NewNop().Sugar())

	if _, err := o.Run(context.Background(), testChannels, RunOptions{MaxChannels: 2, StartFrom: 1}); err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(dl.calls) != "[foo]" {
		t.Fatalf("expected only foo after cap+offset, got %v", dl.calls)
	}
}

func TestRunNoChannelsAfterFilteringFails(t *testing.T) {
	o := NewOrchestrator(&fakeChannelDownloader{}, newSnapshotStore(), zap.NewNop().Sugar())
	if _, err := o.Run(context.Background(), testChannels, RunOptions{StartFrom: 10}); err == nil {
		t.Fatal("expected error when the offset skips every channel")
	}
	if _, err := o.Run(context.Background(), nil, RunOptions{}); err == nil {
		t.Fatal("expected error for an empty channel list")
	}
}

func TestRunStopsAfterContextCancellation(t *testing.T) {
	dl := &fakeChannelDownloader{
		results: map[string][]domain.VideoResult{"leon": success("https://w/1")},
		errs:    map[string]error{"foo": context.Canceled},
	}
	o := NewOrchestrator(dl, newSnapshotStore(), zap.NewNop().Sugar())

	results, err := o.Run(context.Background(), testChannels, RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(dl.calls) != 2 {
		t.Fatalf("expected run to stop after cancellation, calls: %v", dl.calls)
	}
	if r, ok := results.Get("foo"); !ok || !r.IsError() {
		t.Fatal("cancelled channel should still be recorded")
	}
}

type failingStore struct{}

func (failingStore) Save(ctx context.Context, path string, results *domain.BatchResults) error {
	return errors.New("disk full")
}

func TestRunCheckpointFailureIsNonFatal(t *testing.T) {
	dl := &fakeChannelDownloader{results: map[string][]domain.VideoResult{
		"leon": success("https://w/1"),
		"foo":  success("https://w/2"),
		"bar":  success("https://w/3"),
	}}
	o := NewOrchestrator(dl, failingStore{}, zap.NewNop().Sugar())

	results, err := o.Run(context.Background(), testChannels, RunOptions{
		CheckpointPath: "checkpoint.json",
		FinalPath:      "final.json",
	})
	if err != nil {
		t.Fatal(err)
	}
	if results.Len() != 3 {
		t.Fatalf("persistence failures must not abort the batch: %d", results.Len())
	}
}
