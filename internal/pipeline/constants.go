package pipeline

import "time"

// Pipeline defaults
const (
	// DefaultStageTimeout bounds each external-service call so a
	// closing session never waits on a stage that will not be heard.
	DefaultStageTimeout = 15 * time.Second

	// NoSpeechMessage is the distinguished transcription failure shown
	// when the recognizer finds nothing to transcribe.
	NoSpeechMessage = "no speech detected"
)
