package speech

import (
	"context"
	"crypto/sha256"

	"github.com/charmbracelet/log"
)

// mpegFrameHeader is an MPEG-1 Layer III frame sync, 128 kbit/s, 44.1 kHz.
var mpegFrameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// Stub is a Synthesizer that never leaves the process. The payload depends only
// on the request, so repeated runs with the same input produce identical files.
type Stub struct {
	logger *log.Logger
}

// NewStub returns a stub synthesizer.
func NewStub(logger *log.Logger) *Stub {
	if logger == nil {
		logger = log.Default()
	}
	return &Stub{logger: logger.WithPrefix("stub")}
}

// Synthesize returns a small deterministic payload derived from req.
func (s *Stub) Synthesize(ctx context.Context, req Request) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(req.Model + "\x00" + req.Voice + "\x00" + req.Instructions + "\x00" + req.Text))

	data := make([]byte, 0, len(mpegFrameHeader)+len(sum)+len(req.Text))
	if req.Format == FormatMP3 {
		data = append(data, mpegFrameHeader...)
	}
	data = append(data, sum[:]...)
	data = append(data, req.Text...)

	s.logger.Debug("Generated stub audio", "bytes", len(data), "format", req.Format)
	return &Audio{Data: data, Format: req.Format}, nil
}

var _ Synthesizer = (*Stub)(nil)
