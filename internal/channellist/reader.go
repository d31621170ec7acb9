package channellist

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"ytaudiobatch/internal/core/domain"
)

// Read parses a channel list file into ordered entries. Each non-empty,
// non-comment line holds "channel_name,channel_url"; the split happens
// on the first comma so URLs may contain commas themselves. Malformed
// lines are skipped with a warning. An unreadable file is a
// configuration failure and returns an error.
func Read(path string, log *zap.SugaredLogger) ([]domain.ChannelEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open channel list %s: %w", path, err)
	}
	defer f.Close()

	var channels []domain.ChannelEntry
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, url, found := strings.Cut(line, ",")
		if !found {
			log.Warnf("line %d: missing comma separator, skipping: %s", lineNum, line)
			continue
		}
		channels = append(channels, domain.ChannelEntry{
			Name: strings.TrimSpace(name),
			URL:  strings.TrimSpace(url),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read channel list %s: %w", path, err)
	}

	log.Infof("loaded %d channels from %s", len(channels), path)
	return channels, nil
}
