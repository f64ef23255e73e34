package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"organizer/internal/config"
	"organizer/internal/media"
	"organizer/internal/services"
)

// rawResult mirrors the JSON shape produced by `ffprobe -show_format
// -show_streams -of json`.
type rawResult struct {
	Streams []rawStream `json:"streams"`
	Format  rawFormat   `json:"format"`
}

type rawStream struct {
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	PixFmt           string `json:"pix_fmt"`
	BitsPerRawSample string `json:"bits_per_raw_sample"`
	ChannelLayout    string `json:"channel_layout"`
	Channels         int    `json:"channels"`
}

type rawFormat struct {
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against path with the supplied timeout and
// returns the decoded raw payload.
func inspect(ctx context.Context, binary, path string, timeout time.Duration) (rawResult, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return rawResult{}, services.Wrap(services.ErrValidation, "ffprobe", "inspect", "empty path", nil)
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return rawResult{}, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", strings.TrimSpace(string(output)), err)
	}

	var result rawResult
	if err := json.Unmarshal(output, &result); err != nil {
		return rawResult{}, services.Wrap(services.ErrExternalTool, "ffprobe", "inspect", "parse ffprobe json", err)
	}
	return result, nil
}

// Probe invokes ffprobe and reduces the result to media.ProbeMetadata. A
// non-zero exit or parse failure is reported as an error; the
// caller (candidate builder) treats probe failure as non-fatal and falls
// back to filename-parsed technical tokens.
func Probe(ctx context.Context, cfg config.FFprobe, path string) (media.ProbeMetadata, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	raw, err := inspect(ctx, cfg.Binary, path, timeout)
	if err != nil {
		return media.ProbeMetadata{}, err
	}
	return reduce(raw, path), nil
}

func reduce(raw rawResult, path string) media.ProbeMetadata {
	var out media.ProbeMetadata
	for _, stream := range raw.Streams {
		switch strings.ToLower(stream.CodecType) {
		case "video":
			if out.VideoCodec == "" {
				out.VideoCodec = strings.ToLower(stream.CodecName)
			}
			if out.Resolution == "" && stream.Height > 0 {
				out.Resolution = resolutionToken(stream.Height)
			}
			if out.BitDepth == 0 {
				out.BitDepth = bitDepth(stream)
			}
		case "audio":
			if out.AudioCodec == "" {
				out.AudioCodec = strings.ToLower(stream.CodecName)
			}
			if out.AudioChannel == "" {
				out.AudioChannel = channelLayout(stream)
			}
		}
	}
	out.Container = containerToken(raw.Format.FormatName, path)
	return out
}

func resolutionToken(height int) string {
	switch {
	case height >= 2000:
		return "2160p"
	case height >= 1000:
		return "1080p"
	case height >= 700:
		return "720p"
	case height >= 400:
		return "480p"
	default:
		return fmt.Sprintf("%dp", height)
	}
}

func bitDepth(stream rawStream) int {
	if stream.BitsPerRawSample != "" {
		if n, err := strconv.Atoi(stream.BitsPerRawSample); err == nil && n > 0 {
			return n
		}
	}
	lower := strings.ToLower(stream.PixFmt)
	switch {
	case strings.Contains(lower, "10le"), strings.Contains(lower, "10be"):
		return 10
	case strings.Contains(lower, "12le"), strings.Contains(lower, "12be"):
		return 12
	case lower != "":
		return 8
	}
	return 0
}

func channelLayout(stream rawStream) string {
	if stream.ChannelLayout != "" {
		return normalizeLayout(stream.ChannelLayout)
	}
	switch stream.Channels {
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		if stream.Channels > 0 {
			return fmt.Sprintf("%dch", stream.Channels)
		}
		return ""
	}
}

func normalizeLayout(layout string) string {
	layout = strings.ToLower(layout)
	if idx := strings.Index(layout, "("); idx >= 0 {
		layout = layout[:idx]
	}
	return strings.TrimSpace(layout)
}

func containerToken(formatName, path string) string {
	if formatName != "" {
		first := strings.Split(formatName, ",")[0]
		if first != "" {
			return strings.ToLower(first)
		}
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return strings.ToLower(ext)
}
