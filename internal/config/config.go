// Package config handles relay configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr      string
	SampleRate    int           // PCM rate handed to the recognizer
	FlushFrames   int           // frames per segment before flush
	RoomCapacity  int           // max sessions per conversation
	StageTimeout  time.Duration // per external-service call
	SendTimeout   time.Duration // per-peer outbound write
	MaxFrameBytes int64         // inbound websocket frame limit
	FFmpegPath    string
}

func Load() *Config {
	return &Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8000"),
		SampleRate:    getEnvInt("SAMPLE_RATE", 16000),
		FlushFrames:   getEnvInt("FLUSH_FRAMES", 6),
		RoomCapacity:  getEnvInt("ROOM_CAPACITY", 2),
		StageTimeout:  getEnvSeconds("STAGE_TIMEOUT_SECONDS", 15),
		SendTimeout:   getEnvMillis("SEND_TIMEOUT_MS", 3000),
		MaxFrameBytes: int64(getEnvInt("MAX_FRAME_BYTES", 1<<20)),
		FFmpegPath:    getEnv("FFMPEG_PATH", "ffmpeg"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvSeconds(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Second
}

func getEnvMillis(key string, def int) time.Duration {
	return time.Duration(getEnvInt(key, def)) * time.Millisecond
}
