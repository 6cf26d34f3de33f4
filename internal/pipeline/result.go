package pipeline

// Stage identifies one step of the pipeline.
type Stage string

const (
	StageDecode     Stage = "decode"
	StageTranscribe Stage = "transcribe"
	StageTranslate  Stage = "translate"
	StageSynthesize Stage = "synthesize"
)

// Failure describes which stage failed and why.
type Failure struct {
	Stage   Stage
	Message string
}

// Result is the single outcome of processing one segment: synthesized
// audio or a stage failure, never both.
type Result struct {
	Audio   []byte
	Failure *Failure
}

// Synthesized wraps successful pipeline output.
func Synthesized(audio []byte) Result {
	return Result{Audio: audio}
}

// Failed wraps a stage failure.
func Failed(stage Stage, message string) Result {
	return Result{Failure: &Failure{Stage: stage, Message: message}}
}

// OK reports whether the pipeline produced audio.
func (r Result) OK() bool { return r.Failure == nil }
