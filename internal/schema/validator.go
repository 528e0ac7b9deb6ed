// Package schema validates inbound wire envelopes before they reach the
// orchestrator.
package schema

import (
	"encoding/base64"
	"fmt"
	"strings"

	"ai-interview-orchestrator/internal/models"
)

// ValidationError describes a malformed inbound event. Its message is safe
// to surface to the client.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Limits bound inbound payload sizes.
const (
	maxTextInputBytes = 16 * 1024
	maxAudioBytes     = 10 * 1024 * 1024
)

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateEnvelope checks the envelope type is a known inbound type.
func (v *Validator) ValidateEnvelope(env models.Envelope) error {
	switch env.Type {
	case models.TypeStartInterview, models.TypeAudioData, models.TypeTextInput, models.TypeInterrupt:
		return nil
	case "":
		return &ValidationError{Field: "type", Reason: "missing"}
	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown event type %q", env.Type)}
	}
}

// ValidateText checks a text_input payload.
func (v *Validator) ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "payload", Reason: "empty text"}
	}
	if len(text) > maxTextInputBytes {
		return &ValidationError{Field: "payload", Reason: "text too large"}
	}
	return nil
}

// DecodeAudio checks and decodes a base64 audio_data payload.
func (v *Validator) DecodeAudio(payload string) ([]byte, error) {
	if payload == "" {
		return nil, &ValidationError{Field: "payload", Reason: "empty audio"}
	}
	audio, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &ValidationError{Field: "payload", Reason: "audio is not valid base64"}
	}
	if len(audio) > maxAudioBytes {
		return nil, &ValidationError{Field: "payload", Reason: "audio too large"}
	}
	return audio, nil
}
