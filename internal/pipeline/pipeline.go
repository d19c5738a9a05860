// Package pipeline runs one generate-then-play cycle: synthesize speech, save
// it to a file and hand that file to the system's default player.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/speak/internal/opener"
	"github.com/dgnsrekt/speak/internal/output"
	"github.com/dgnsrekt/speak/internal/speech"
	"github.com/dustin/go-humanize"
)

// Stage is the position of a run in the pipeline.
type Stage string

const (
	StageIdle       Stage = "idle"
	StageRequesting Stage = "requesting"
	StageWriting    Stage = "writing"
	StagePlaying    Stage = "playing"
	StageDone       Stage = "done"
	StageFailed     Stage = "failed"
)

// FileWriter saves a payload to path.
type FileWriter interface {
	Write(path string, data []byte) (int, error)
}

// Config describes one run.
type Config struct {
	Request speech.Request

	// Output is the target file. Relative paths resolve against the working
	// directory. Defaults to output.DefaultPath.
	Output string

	// Play dispatches the saved file to the default player.
	Play bool
}

// Pipeline ties a synthesizer, a file writer and an opener together.
// A Pipeline is not safe for concurrent use; runs are sequential.
type Pipeline struct {
	cfg    Config
	synth  speech.Synthesizer
	writer FileWriter
	opener opener.Opener
	logger *log.Logger

	stage Stage
	path  string
}

// New builds a pipeline. A nil writer, opener or logger is replaced with the
// real file writer, the platform opener and the default logger.
func New(cfg Config, synth speech.Synthesizer, w FileWriter, o opener.Opener, logger *log.Logger) *Pipeline {
	if cfg.Output == "" {
		cfg.Output = output.DefaultPath
	}
	if w == nil {
		w = output.Writer{}
	}
	if o == nil {
		o = opener.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		synth:  synth,
		writer: w,
		opener: o,
		logger: logger,
		stage:  StageIdle,
	}
}

// Stage returns the stage the last run reached.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

// Path returns the resolved output path of the last run, if any.
func (p *Pipeline) Path() string {
	return p.path
}

// Run performs the whole cycle once. Failures before playback come back as
// *Error; a player that cannot be started is only logged.
func (p *Pipeline) Run(ctx context.Context) error {
	p.path = ""
	p.setStage(StageRequesting)

	req := p.cfg.Request.WithDefaults()
	if err := req.Validate(); err != nil {
		return p.fail(&Error{Kind: RequestFailure, Err: err})
	}

	p.logger.Info("Generating speech...", "model", req.Model, "voice", req.Voice, "format", req.Format)
	audio, err := p.synth.Synthesize(ctx, req)
	if err != nil {
		return p.fail(&Error{Kind: RequestFailure, Err: err})
	}

	p.setStage(StageWriting)
	path, err := output.Resolve(p.cfg.Output)
	if err != nil {
		return p.fail(&Error{Kind: WriteFailure, Path: p.cfg.Output, Err: err})
	}
	n, err := p.writer.Write(path, audio.Data)
	if err != nil {
		return p.fail(&Error{Kind: WriteFailure, Path: path, Err: err})
	}
	if n != audio.Len() {
		return p.fail(&Error{Kind: WriteFailure, Path: path, Err: fmt.Errorf("wrote %d of %d bytes: %w", n, audio.Len(), io.ErrShortWrite)})
	}
	p.path = path
	p.logger.Info("Speech file created", "path", path, "size", humanize.Bytes(uint64(n)))

	if !p.cfg.Play {
		p.setStage(StageDone)
		return nil
	}

	p.setStage(StagePlaying)
	p.logger.Info("Playing with the system default player...", "opener", p.opener.Name())
	if err := p.opener.Open(path); err != nil {
		p.logger.Warn("Could not start the default player", "opener", p.opener.Name(), "err", err)
	}

	p.setStage(StageDone)
	return nil
}

func (p *Pipeline) setStage(s Stage) {
	p.logger.Debug("Pipeline stage", "from", p.stage, "to", s)
	p.stage = s
}

func (p *Pipeline) fail(err *Error) error {
	p.setStage(StageFailed)
	p.logger.Error("Speech generation failed", "kind", err.Kind, "err", err.Err)
	return err
}
