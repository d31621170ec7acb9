package ports

import (
	"context"

	"ytaudiobatch/internal/core/domain"
)

// EnumerateOptions tune channel enumeration.
type EnumerateOptions struct {
	// MaxVideos caps the number of entries returned. 0 means all.
	MaxVideos int

	// CookiesFile is an optional browser cookie jar path, passed through
	// to the extraction library when set.
	CookiesFile string
}

// FetchOptions is the configuration bundle for a single video fetch.
type FetchOptions struct {
	// VideoID is the 11-character YouTube ID, used to locate the output
	// and the library's info sidecar inside OutputDir.
	VideoID string

	// OutputDir is the private directory owned by this video.
	OutputDir string

	// RateLimit is a bandwidth cap token understood by the extraction
	// library, e.g. "500K".
	RateLimit string

	// Retries is the library-internal retry budget for transient errors.
	Retries int

	// SleepInterval and MaxSleepInterval bound the library's own
	// randomized sleeps, in seconds.
	SleepInterval    float64
	MaxSleepInterval float64

	// SleepRequests makes the library sleep after every N requests.
	SleepRequests int

	// CookiesFile is an optional browser cookie jar path.
	CookiesFile string
}

// TrackInfo carries the fields of the library's metadata sidecar that
// the downloader shapes into a domain.Metadata record. Pointer fields
// are null when the library did not report a value.
type TrackInfo struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	UploadDate     string   `json:"upload_date"`
	Uploader       string   `json:"uploader"`
	Duration       *float64 `json:"duration"`
	ViewCount      *int64   `json:"view_count"`
	LikeCount      *int64   `json:"like_count"`
	Description    string   `json:"description"`
	ACodec         string   `json:"acodec"`
	ASR            *int     `json:"asr"`
	ABR            *float64 `json:"abr"`
	AudioChannels  *int     `json:"audio_channels"`
	Ext            string   `json:"ext"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
}

// Extractor is the boundary to the external extraction/download
// library. Implementations do the real work of page parsing, format
// selection, transcoding and network retries; callers only orchestrate.
type Extractor interface {
	// EnumerateVideos lists the video IDs of a channel without
	// downloading anything.
	EnumerateVideos(ctx context.Context, channelURL string, opts EnumerateOptions) ([]string, error)

	// FetchAudio downloads one video's audio into opts.OutputDir,
	// transcoded to WAV with embedded tags, and returns the track info
	// parsed from the library's sidecar.
	FetchAudio(ctx context.Context, videoURL string, opts FetchOptions) (*TrackInfo, error)
}

// Pacer decides how long to wait before the next unit of work.
type Pacer interface {
	// Wait blocks for the policy's duration or until ctx is done, in
	// which case it returns ctx's error.
	Wait(ctx context.Context) error
}

// ResultStore persists the accumulated batch results.
type ResultStore interface {
	// Save writes the results mapping to path, overwriting any previous
	// content.
	Save(ctx context.Context, path string, results *domain.BatchResults) error
}
