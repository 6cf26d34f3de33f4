package speech

import (
	"context"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	ttsapi "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	apperr "github.com/vaanihq/platform/internal/errors"
	"github.com/vaanihq/platform/internal/resilience"
)

// GoogleTranscriber recognizes speech via the Cloud Speech-to-Text API.
type GoogleTranscriber struct {
	client     *speechapi.Client
	sampleRate int
	breaker    *resilience.Breaker
	retry      resilience.RetryConfig
}

// NewGoogleTranscriber dials the recognition service.
func NewGoogleTranscriber(ctx context.Context, sampleRate int, opts ...option.ClientOption) (*GoogleTranscriber, error) {
	client, err := speechapi.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleTranscriber{
		client:     client,
		sampleRate: sampleRate,
		breaker:    resilience.New(resilience.FastConfig()),
		retry:      resilience.SpeechRetryConfig(),
	}, nil
}

// Transcribe recognizes PCM audio in the given locale. An empty
// transcript with nil error means the recognizer found no speech.
func (t *GoogleTranscriber) Transcribe(ctx context.Context, pcm []byte, locale string) (string, error) {
	return resilience.ExecuteWithResult(t.breaker, func() (string, error) {
		var text string
		err := resilience.Retry(ctx, t.retry, func() error {
			resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
				Config: &speechpb.RecognitionConfig{
					Encoding:        speechpb.RecognitionConfig_LINEAR16,
					SampleRateHertz: int32(t.sampleRate),
					LanguageCode:    locale,
				},
				Audio: &speechpb.RecognitionAudio{
					AudioSource: &speechpb.RecognitionAudio_Content{Content: pcm},
				},
			})
			if err != nil {
				return err
			}
			text = topTranscript(resp)
			return nil
		})
		return text, err
	})
}

func topTranscript(resp *speechpb.RecognizeResponse) string {
	for _, res := range resp.GetResults() {
		alts := res.GetAlternatives()
		if len(alts) > 0 && alts[0].GetTranscript() != "" {
			return alts[0].GetTranscript()
		}
	}
	return ""
}

// Close releases the underlying connection.
func (t *GoogleTranscriber) Close() error { return t.client.Close() }

// GoogleTranslator translates text via the Cloud Translation API.
type GoogleTranslator struct {
	client  *translate.Client
	breaker *resilience.Breaker
	retry   resilience.RetryConfig
}

// NewGoogleTranslator dials the translation service.
func NewGoogleTranslator(ctx context.Context, opts ...option.ClientOption) (*GoogleTranslator, error) {
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleTranslator{
		client:  client,
		breaker: resilience.New(resilience.FastConfig()),
		retry:   resilience.SpeechRetryConfig(),
	}, nil
}

// Translate translates text between two ISO language codes.
func (t *GoogleTranslator) Translate(ctx context.Context, text, srcCode, dstCode string) (string, error) {
	srcTag, err := language.Parse(srcCode)
	if err != nil {
		return "", apperr.Wrapf(err, apperr.CodeTranslation, "bad source code %q", srcCode)
	}
	dstTag, err := language.Parse(dstCode)
	if err != nil {
		return "", apperr.Wrapf(err, apperr.CodeTranslation, "bad target code %q", dstCode)
	}

	return resilience.ExecuteWithResult(t.breaker, func() (string, error) {
		var out string
		err := resilience.Retry(ctx, t.retry, func() error {
			res, err := t.client.Translate(ctx, []string{text}, dstTag, &translate.Options{
				Source: srcTag,
				Format: translate.Text,
			})
			if err != nil {
				return err
			}
			if len(res) == 0 {
				return apperr.New(apperr.CodeTranslation, "empty translation response")
			}
			out = res[0].Text
			return nil
		})
		return out, err
	})
}

// Close releases the underlying connection.
func (t *GoogleTranslator) Close() error { return t.client.Close() }

// GoogleSynthesizer renders speech via the Cloud Text-to-Speech API.
// Output is MP3, the container clients already expect.
type GoogleSynthesizer struct {
	client  *ttsapi.Client
	breaker *resilience.Breaker
	retry   resilience.RetryConfig
}

// NewGoogleSynthesizer dials the synthesis service.
func NewGoogleSynthesizer(ctx context.Context, opts ...option.ClientOption) (*GoogleSynthesizer, error) {
	client, err := ttsapi.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleSynthesizer{
		client:  client,
		breaker: resilience.New(resilience.FastConfig()),
		retry:   resilience.SpeechRetryConfig(),
	}, nil
}

// Synthesize renders text as MP3 audio for a synthesis language code.
func (s *GoogleSynthesizer) Synthesize(ctx context.Context, text, code string) ([]byte, error) {
	return resilience.ExecuteWithResult(s.breaker, func() ([]byte, error) {
		var audio []byte
		err := resilience.Retry(ctx, s.retry, func() error {
			resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
				Input: &texttospeechpb.SynthesisInput{
					InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
				},
				Voice: &texttospeechpb.VoiceSelectionParams{
					LanguageCode: code,
					SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
				},
				AudioConfig: &texttospeechpb.AudioConfig{
					AudioEncoding: texttospeechpb.AudioEncoding_MP3,
				},
			})
			if err != nil {
				return err
			}
			audio = resp.GetAudioContent()
			return nil
		})
		return audio, err
	})
}

// Close releases the underlying connection.
func (s *GoogleSynthesizer) Close() error { return s.client.Close() }

// Clients bundles the three Google-backed stage clients for bootstrap.
type Clients struct {
	Transcriber *GoogleTranscriber
	Translator  *GoogleTranslator
	Synthesizer *GoogleSynthesizer
}

// NewClients dials all three services; on any failure the already-open
// connections are closed.
func NewClients(ctx context.Context, sampleRate int, opts ...option.ClientOption) (*Clients, error) {
	stt, err := NewGoogleTranscriber(ctx, sampleRate, opts...)
	if err != nil {
		return nil, err
	}
	mt, err := NewGoogleTranslator(ctx, opts...)
	if err != nil {
		_ = stt.Close()
		return nil, err
	}
	tts, err := NewGoogleSynthesizer(ctx, opts...)
	if err != nil {
		_ = stt.Close()
		_ = mt.Close()
		return nil, err
	}
	return &Clients{Transcriber: stt, Translator: mt, Synthesizer: tts}, nil
}

// Close closes every client, returning the first error.
func (c *Clients) Close() error {
	var first error
	for _, closer := range []interface{ Close() error }{c.Transcriber, c.Translator, c.Synthesizer} {
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
