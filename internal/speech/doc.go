// Package speech turns text into encoded audio using a remote synthesis
// service. It defines the immutable Request value, the Synthesizer contract,
// an OpenAI backed Client and a deterministic Stub for offline runs.
package speech
