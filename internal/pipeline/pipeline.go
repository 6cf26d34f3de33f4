// Package pipeline drives one audio segment through the
// decode → transcribe → translate → synthesize stages.
package pipeline

import (
	"context"
	"strings"
	"time"

	apperr "github.com/vaanihq/platform/internal/errors"
	"github.com/vaanihq/platform/internal/language"
	"github.com/vaanihq/platform/internal/segment"
	"github.com/vaanihq/platform/internal/trace"
)

// Decoder converts an encoded segment into the PCM representation the
// recognizer expects.
type Decoder interface {
	Decode(ctx context.Context, encoded []byte) ([]byte, error)
}

// Transcriber converts PCM audio to text for a recognition locale.
// An empty transcript with a nil error means no speech was detected.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte, locale string) (string, error)
}

// Translator translates text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, srcCode, dstCode string) (string, error)
}

// Synthesizer renders text as audio for a synthesis language code.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, code string) ([]byte, error)
}

// Orchestrator runs segments through the four stages in order,
// short-circuiting on the first failure. Stage clients are injected so
// the pipeline stays testable with fakes.
type Orchestrator struct {
	decoder      Decoder
	transcriber  Transcriber
	translator   Translator
	synthesizer  Synthesizer
	stageTimeout time.Duration
}

// New creates an orchestrator over the given stage clients.
func New(dec Decoder, stt Transcriber, mt Translator, tts Synthesizer, stageTimeout time.Duration) *Orchestrator {
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}
	return &Orchestrator{
		decoder:      dec,
		transcriber:  stt,
		translator:   mt,
		synthesizer:  tts,
		stageTimeout: stageTimeout,
	}
}

// Process runs one segment through the pipeline and returns exactly one
// Result. Stage errors never escape as Go errors; they come back as the
// failed variant. All scratch resources are scoped to this call.
func (o *Orchestrator) Process(ctx context.Context, seg segment.Segment, src, tgt language.Profile) Result {
	ctx, span := trace.StartSpan(ctx, "pipeline_process")
	defer span.End()
	span.SetAttr("segment_bytes", len(seg))

	log := trace.Logger(ctx)

	pcm, err := o.decode(ctx, seg)
	if err != nil {
		log.Debug("decode failed", "error", err)
		return Failed(StageDecode, stageMessage(err))
	}

	transcript, err := o.transcribe(ctx, pcm, src.RecognitionLocale)
	if err != nil {
		log.Debug("transcription failed", "locale", src.RecognitionLocale, "error", err)
		return Failed(StageTranscribe, stageMessage(err))
	}

	translated, err := o.translate(ctx, transcript, src.TranslationCode, tgt.TranslationCode)
	if err != nil {
		log.Debug("translation failed", "src", src.TranslationCode, "dst", tgt.TranslationCode, "error", err)
		return Failed(StageTranslate, stageMessage(err))
	}

	audio, err := o.synthesize(ctx, translated, tgt.SynthesisCode)
	if err != nil {
		log.Debug("synthesis failed", "code", tgt.SynthesisCode, "error", err)
		return Failed(StageSynthesize, stageMessage(err))
	}

	span.SetAttr("audio_bytes", len(audio))
	log.Info("segment translated", "transcript_len", len(transcript), "audio_bytes", len(audio))
	return Synthesized(audio)
}

func (o *Orchestrator) decode(ctx context.Context, seg segment.Segment) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	pcm, err := o.decoder.Decode(ctx, seg)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeDecode, "audio decode failed")
	}
	if len(pcm) == 0 {
		return nil, apperr.New(apperr.CodeDecode, "decoder produced no samples")
	}
	return pcm, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, pcm []byte, locale string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	text, err := o.transcriber.Transcribe(ctx, pcm, locale)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeTranscription, "recognition service failed")
	}
	if strings.TrimSpace(text) == "" {
		return "", apperr.New(apperr.CodeNoSpeech, NoSpeechMessage)
	}
	return text, nil
}

func (o *Orchestrator) translate(ctx context.Context, text, srcCode, dstCode string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	out, err := o.translator.Translate(ctx, text, srcCode, dstCode)
	if err != nil {
		return "", apperr.Wrap(err, apperr.CodeTranslation, "translation service failed")
	}
	return out, nil
}

func (o *Orchestrator) synthesize(ctx context.Context, text, code string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.stageTimeout)
	defer cancel()

	audio, err := o.synthesizer.Synthesize(ctx, text, code)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.CodeSynthesis, "synthesis service failed")
	}
	return audio, nil
}

// stageMessage renders an error for the user-facing notice, preferring
// the relay's own message over wrapped service internals.
func stageMessage(err error) string {
	if appErr, ok := err.(*apperr.AppError); ok {
		if appErr.Code == apperr.CodeNoSpeech {
			return appErr.Message
		}
		if appErr.Cause != nil {
			return appErr.Message + ": " + appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
