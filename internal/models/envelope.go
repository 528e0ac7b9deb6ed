package models

import "encoding/json"

// Envelope is the wire frame exchanged over the interview websocket.
// Inbound and outbound frames share the same {type, payload} shape.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Inbound envelope types (candidate -> orchestrator).
const (
	TypeStartInterview = "start_interview"
	TypeAudioData      = "audio_data"
	TypeTextInput      = "text_input"
	TypeInterrupt      = "interrupt"
)

// Outbound envelope types (orchestrator -> candidate).
const (
	TypeSessionCreated   = "session_created"
	TypeTextChunk        = "text_chunk"
	TypeTranscription    = "transcription"
	TypeAudioOutput      = "audio_output"
	TypeResponseComplete = "response_complete"
	TypeReport           = "report"
	TypeError            = "error"
)

// NewEnvelope marshals payload into a wire frame. Marshal failures are
// reported by the transport, not here; payload types are all local structs
// or strings that cannot fail to encode.
func NewEnvelope(typ string, payload any) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{Type: typ, Payload: raw}
}

// TurnEvent is published to Kafka when an interviewer turn completes.
type TurnEvent struct {
	EventType string `json:"eventType"`
	SessionID string `json:"sessionId"`
	Stage     string `json:"stage"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// ReportEvent is published to Kafka when a final report is persisted.
type ReportEvent struct {
	EventType  string `json:"eventType"`
	SessionID  string `json:"sessionId"`
	FinalScore int    `json:"finalScore"`
	Status     string `json:"status"`
	Timestamp  int64  `json:"timestamp"`
}
