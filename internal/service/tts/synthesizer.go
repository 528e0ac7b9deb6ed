// Package tts defines the interface for Text-to-Speech adapters.
package tts

import "context"

// Synthesizer renders interviewer text into audio for playback.
type Synthesizer interface {
	// Synthesize converts text to audio bytes (MP3).
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
