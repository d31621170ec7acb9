package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"ytaudiobatch/internal/core/ports"
)

// Audio-only selection, best first: WAV > FLAC > M4A > any audio > any.
const formatChain = "bestaudio[ext=wav]/bestaudio[ext=flac]/bestaudio[ext=m4a]/bestaudio/best"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const enumerateTimeout = 5 * time.Minute

// Extractor implements ports.Extractor on top of the yt-dlp binary.
type Extractor struct {
	binaryPath string
}

// NewExtractor creates an Extractor. An empty binaryPath falls back to
// yt-dlp from PATH.
func NewExtractor(binaryPath string) *Extractor {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &Extractor{binaryPath: binaryPath}
}

// EnumerateVideos lists a channel's video IDs via a flat playlist dump,
// one JSON entry per stdout line, without downloading anything.
func (e *Extractor) EnumerateVideos(ctx context.Context, channelURL string, opts ports.EnumerateOptions) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, enumerateTimeout)
	defer cancel()

	args := []string{"--flat-playlist", "--dump-json", "--no-warnings", "--ignore-errors"}
	if opts.MaxVideos > 0 {
		args = append(args, "--playlist-end", strconv.Itoa(opts.MaxVideos))
	}
	if opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	args = append(args, channelURL)

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// --ignore-errors makes yt-dlp exit non-zero when some entries
		// were skipped; partial output is still usable.
		ids := parseFlatEntries(out.Bytes())
		if len(ids) > 0 {
			return ids, nil
		}
		return nil, fmt.Errorf("yt-dlp enumeration failed: %w, stderr: %s", err, stderr.String())
	}

	return parseFlatEntries(out.Bytes()), nil
}

// parseFlatEntries extracts video IDs from line-delimited flat playlist
// JSON, skipping lines that do not parse or carry no ID.
func parseFlatEntries(output []byte) []string {
	var ids []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(line, &entry); err != nil || entry.ID == "" {
			continue
		}
		ids = append(ids, entry.ID)
	}
	return ids
}

// FetchAudio downloads one video's audio into opts.OutputDir with the
// configured rate limit, retry budget and sleep bounds, transcodes it to
// WAV with embedded tags, and parses the info sidecar yt-dlp writes
// alongside it.
func (e *Extractor) FetchAudio(ctx context.Context, videoURL string, opts ports.FetchOptions) (*ports.TrackInfo, error) {
	args := []string{
		"-o", filepath.Join(opts.OutputDir, "%(id)s.%(ext)s"),
		"-f", formatChain,
		"-x", "--audio-format", "wav", "--audio-quality", "0",
		"--embed-metadata",
		"--write-info-json",
		"--no-check-certificates",
		"--user-agent", userAgent,
	}
	if opts.RateLimit != "" {
		args = append(args, "--limit-rate", opts.RateLimit)
	}
	if opts.Retries > 0 {
		args = append(args,
			"--retries", strconv.Itoa(opts.Retries),
			"--fragment-retries", strconv.Itoa(opts.Retries))
	}
	if opts.MaxSleepInterval > 0 {
		args = append(args,
			"--sleep-interval", strconv.FormatFloat(opts.SleepInterval, 'f', -1, 64),
			"--max-sleep-interval", strconv.FormatFloat(opts.MaxSleepInterval, 'f', -1, 64))
	}
	if opts.SleepRequests > 0 {
		args = append(args, "--sleep-requests", strconv.Itoa(opts.SleepRequests))
	}
	if opts.CookiesFile != "" {
		args = append(args, "--cookies", opts.CookiesFile)
	}
	args = append(args, videoURL)

	cmd := exec.CommandContext(ctx, e.binaryPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp download failed: %w, stderr: %s", err, stderr.String())
	}

	return readTrackInfo(filepath.Join(opts.OutputDir, opts.VideoID+".info.json"))
}

// readTrackInfo parses the info sidecar yt-dlp emits for a download.
func readTrackInfo(path string) (*ports.TrackInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read info sidecar %s: %w", path, err)
	}
	var info ports.TrackInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse info sidecar %s: %w", path, err)
	}
	return &info, nil
}
