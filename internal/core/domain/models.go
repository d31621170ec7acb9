package domain

// ChannelEntry is one parsed line of the channel list file.
type ChannelEntry struct {
	Name string
	URL  string
}

// Status is the outcome of a single video download.
type Status string

const (
	// StatusSuccess means audio and metadata landed on disk.
	StatusSuccess Status = "success"

	// StatusFailed means the download did not produce usable output.
	StatusFailed Status = "failed"

	// StatusError marks a channel-level failure, not a per-video one.
	StatusError Status = "error"
)

// String returns the string representation of Status.
func (s Status) String() string {
	return string(s)
}

// VideoResult is the outcome of one download attempt. Exactly one of
// Metadata (success) or Error (failure) is populated.
type VideoResult struct {
	VideoURL     string    `json:"video_url"`
	VideoID      string    `json:"video_id,omitempty"`
	ChannelName  string    `json:"channel_name,omitempty"`
	Status       Status    `json:"status"`
	OutputDir    string    `json:"output_dir,omitempty"`
	MetadataFile string    `json:"metadata_file,omitempty"`
	Metadata     *Metadata `json:"metadata,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// AudioMetadata describes the audio stream of a downloaded track.
type AudioMetadata struct {
	Codec      string   `json:"codec"`
	SampleRate *int     `json:"sample_rate"`
	BitRate    *float64 `json:"bit_rate"`
	Channels   int      `json:"channels"`
	Format     string   `json:"format"`
	FileSize   *int64   `json:"file_size"`
}

// Metadata is the per-video sidecar persisted as <video_id>.json next to
// the audio file. Written once, never mutated.
type Metadata struct {
	VideoID           string        `json:"video_id"`
	Title             string        `json:"title"`
	ChannelURL        string        `json:"channel_url"`
	ChannelName       string        `json:"channel_name"`
	UploadDate        string        `json:"upload_date"`
	Uploader          string        `json:"uploader"`
	DurationSec       *float64      `json:"duration_sec"`
	ViewCount         *int64        `json:"view_count"`
	LikeCount         *int64        `json:"like_count"`
	Description       string        `json:"description"`
	Audio             AudioMetadata `json:"audio_metadata"`
	DownloadTimestamp string        `json:"download_timestamp"`
	OriginalURL       string        `json:"original_url"`
}

// Stats are the process-wide download counters.
type Stats struct {
	TotalVideos int
	Successful  int
	Failed      int
	Skipped     int
}

// ChannelResult aggregates the per-video results of one channel. A
// channel-level failure is represented with Status=error and an Error
// message instead of the video breakdown.
type ChannelResult struct {
	ChannelURL  string
	TotalVideos int
	Successful  int
	Failed      int
	Videos      []VideoResult
	Status      Status
	Error       string
}

// NewChannelResult builds a ChannelResult by counting video outcomes.
func NewChannelResult(channelURL string, videos []VideoResult) ChannelResult {
	r := ChannelResult{
		ChannelURL:  channelURL,
		TotalVideos: len(videos),
		Videos:      videos,
	}
	if r.Videos == nil {
		r.Videos = []VideoResult{}
	}
	for _, v := range videos {
		switch v.Status {
		case StatusSuccess:
			r.Successful++
		case StatusFailed:
			r.Failed++
		}
	}
	return r
}

// NewChannelError builds the channel-level error shape.
func NewChannelError(channelURL string, err error) ChannelResult {
	return ChannelResult{
		ChannelURL: channelURL,
		Status:     StatusError,
		Error:      err.Error(),
	}
}

// IsError reports whether this is a channel-level error entry.
func (r ChannelResult) IsError() bool {
	return r.Status == StatusError
}

// MarshalJSON emits one of the two result shapes: the video breakdown
// for processed channels, or {channel_url, status, error} when the
// channel failed at the top level.
func (r ChannelResult) MarshalJSON() ([]byte, error) {
	if r.IsError() {
		return marshalNoEscape(struct {
			ChannelURL string `json:"channel_url"`
			Status     Status `json:"status"`
			Error      string `json:"error"`
		}{r.ChannelURL, r.Status, r.Error})
	}
	videos := r.Videos
	if videos == nil {
		videos = []VideoResult{}
	}
	return marshalNoEscape(struct {
		ChannelURL  string        `json:"channel_url"`
		TotalVideos int           `json:"total_videos"`
		Successful  int           `json:"successful"`
		Failed      int           `json:"failed"`
		Videos      []VideoResult `json:"videos"`
	}{r.ChannelURL, r.TotalVideos, r.Successful, r.Failed, videos})
}
