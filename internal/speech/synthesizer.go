package speech

import "context"

// Synthesizer converts a Request into a complete audio payload.
// Implementations return only after the whole response has been received.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (*Audio, error)
}
