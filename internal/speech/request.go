package speech

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Defaults used when a Request field is left empty.
const (
	DefaultModel  = "gpt-4o-mini-tts"
	DefaultVoice  = "ballad"
	DefaultFormat = FormatMP3

	// MaxInputLength is the longest input the speech endpoint accepts, in characters.
	MaxInputLength = 4096

	MinSpeed = 0.25
	MaxSpeed = 4.0
)

// Format is an audio encoding the service can return.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatOpus Format = "opus"
	FormatAAC  Format = "aac"
	FormatFLAC Format = "flac"
	FormatWAV  Format = "wav"
	FormatPCM  Format = "pcm"
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatMP3, FormatOpus, FormatAAC, FormatFLAC, FormatWAV, FormatPCM:
		return true
	default:
		return false
	}
}

// ParseFormat normalizes s and checks it against the known formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return DefaultFormat, nil
	}
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

var (
	// ErrEmptyText is returned when a request has no input text.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong is returned when the input exceeds MaxInputLength.
	ErrTextTooLong = errors.New("text too long")

	// ErrUnknownFormat is returned for an unsupported response format.
	ErrUnknownFormat = errors.New("unknown audio format")

	// ErrInvalidSpeed is returned when speed is set outside MinSpeed..MaxSpeed.
	ErrInvalidSpeed = errors.New("speed must be between 0.25 and 4.0")
)

// Request is one synthesis job. It is a value type; copies are independent.
type Request struct {
	Model        string
	Text         string
	Instructions string
	Voice        string
	Format       Format

	// Speed of 0 leaves the service default in place.
	Speed float64
}

// WithDefaults returns a copy of r with empty fields filled in.
func (r Request) WithDefaults() Request {
	if r.Model == "" {
		r.Model = DefaultModel
	}
	if r.Voice == "" {
		r.Voice = DefaultVoice
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	return r
}

// Validate checks that the request can be sent as is.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return ErrEmptyText
	}
	if n := utf8.RuneCountInString(r.Text); n > MaxInputLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrTextTooLong, n, MaxInputLength)
	}
	if !r.Format.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.Format)
	}
	if math.IsNaN(r.Speed) || r.Speed != 0 && (r.Speed < MinSpeed || r.Speed > MaxSpeed) {
		return fmt.Errorf("%w, got %.2f", ErrInvalidSpeed, r.Speed)
	}
	return nil
}

// Audio is a complete synthesized payload.
type Audio struct {
	Data   []byte
	Format Format
}

// Len returns the payload size in bytes.
func (a *Audio) Len() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}
