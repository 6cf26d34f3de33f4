// Package audio handles microphone capture for the streaming client.
package audio

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Chunk is one captured slice of microphone audio, already encoded as
// a standalone WAV clip so the relay can decode it in isolation.
type Chunk struct {
	Data      []byte
	Timestamp int64
}

// Capturer records mono 16-bit PCM from the default input device and
// emits fixed-duration WAV chunks with backpressure: when the consumer
// falls behind, chunks are dropped rather than buffered without bound.
type Capturer struct {
	outCh       chan Chunk
	sampleRate  int
	chunkFrames int
	mu          sync.Mutex
	stream      *portaudio.Stream
	cancel      context.CancelFunc
	running     bool
	stopOnce    sync.Once
}

// NewCapturer creates a capturer emitting chunks of chunkMillis audio.
func NewCapturer(sampleRate, chunkMillis, bufferSize int) (*Capturer, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	return &Capturer{
		outCh:       make(chan Chunk, bufferSize),
		sampleRate:  sampleRate,
		chunkFrames: sampleRate * chunkMillis / 1000,
	}, nil
}

// Output returns the channel for receiving audio chunks.
func (c *Capturer) Output() <-chan Chunk { return c.outCh }

// Start begins capturing from the default input device.
func (c *Capturer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = true
	c.mu.Unlock()

	dev, err := portaudio.DefaultInputDevice()
	if err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   dev,
			Channels: 1,
			Latency:  dev.DefaultLowInputLatency,
		},
		SampleRate:      float64(c.sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return err
	}

	capCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.stream = stream
	c.cancel = cancel
	c.mu.Unlock()

	slog.Info("started audio capture", "device", dev.Name, "sample_rate", c.sampleRate)

	go c.captureLoop(capCtx, stream, buf)
	return nil
}

func (c *Capturer) captureLoop(ctx context.Context, stream *portaudio.Stream, buf []int16) {
	defer c.Stop()

	pending := make([]int16, 0, c.chunkFrames)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := stream.Read(); err != nil {
			slog.Debug("audio read error", "error", err)
			return
		}

		pending = append(pending, buf...)
		if len(pending) < c.chunkFrames {
			continue
		}

		chunk := Chunk{
			Data:      EncodeWAV(pending, c.sampleRate),
			Timestamp: time.Now().UnixNano(),
		}
		pending = pending[:0]

		select {
		case c.outCh <- chunk:
		default:
			slog.Debug("audio buffer full, dropping chunk")
		}
	}
}

// Stop ends capture and releases the device.
func (c *Capturer) Stop() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		if c.cancel != nil {
			c.cancel()
		}
		if c.stream != nil {
			_ = c.stream.Stop()
			_ = c.stream.Close()
			c.stream = nil
		}
		c.running = false
		_ = portaudio.Terminate()
	})
}
