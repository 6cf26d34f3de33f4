// Package speech provides the real pipeline stage clients: ffmpeg
// decoding and the Google recognition, translation, and synthesis
// services.
package speech

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	apperr "github.com/vaanihq/platform/internal/errors"
)

// FFmpegDecoder converts browser-encoded audio (webm/ogg/wav) into
// 16-bit mono PCM at a fixed sample rate by piping through ffmpeg.
// Everything flows through stdin/stdout, so no temp files are created
// and cancellation kills the process.
type FFmpegDecoder struct {
	path       string
	sampleRate int
}

// NewFFmpegDecoder creates a decoder using the given ffmpeg binary.
func NewFFmpegDecoder(path string, sampleRate int) *FFmpegDecoder {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegDecoder{path: path, sampleRate: sampleRate}
}

// Decode transcodes encoded audio to s16le mono PCM.
func (d *FFmpegDecoder) Decode(ctx context.Context, encoded []byte) ([]byte, error) {
	if len(encoded) == 0 {
		return nil, apperr.New(apperr.CodeDecode, "empty audio input")
	}

	cmd := exec.CommandContext(ctx, d.path,
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(d.sampleRate),
		"pipe:1",
	)

	var out, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(encoded)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, apperr.Wrap(ctxErr, apperr.CodeDecode, "decode cancelled")
		}
		return nil, apperr.Wrapf(err, apperr.CodeDecode, "ffmpeg: %s", firstLine(stderr.String()))
	}
	return out.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "transcode failed"
	}
	return s
}
