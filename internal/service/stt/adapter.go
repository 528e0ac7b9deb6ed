// Package stt defines the interface for Speech-to-Text adapters.
package stt

import "context"

// Transcriber transcribes one candidate answer recording.
type Transcriber interface {
	// Transcribe converts audio bytes to text. An empty string with a nil
	// error means no speech was recognized.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
